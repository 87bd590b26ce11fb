// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/staking/reverts"
)

// ParseUint parses an optional decimal query value, def is used when s is empty.
func ParseUint(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// CallError maps a ledger error to its http form. Reverts are the caller's
// fault, everything else is left to the 500 path.
func CallError(err error) error {
	if !reverts.IsRevertErr(err) {
		return err
	}
	if errors.Is(err, reverts.ErrUnauthorized) {
		return Forbidden(err)
	}
	return BadRequest(err)
}

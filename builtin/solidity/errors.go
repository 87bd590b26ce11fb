// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/pkg/errors"

var (
	ErrOverflow  = errors.New("uint64 overflow")
	ErrUnderflow = errors.New("uint64 underflow")
)

// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/staking/reverts"
)

func TestParseUint(t *testing.T) {
	v, err := ParseUint("", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)

	v, err = ParseUint("42", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = ParseUint("-1", 10)
	assert.Error(t, err)
}

func TestCallError(t *testing.T) {
	status := func(err error) int {
		var he *httpError
		if errors.As(err, &he) {
			return he.status
		}
		return http.StatusInternalServerError
	}
	assert.Equal(t, http.StatusForbidden, status(CallError(reverts.ErrUnauthorized)))
	assert.Equal(t, http.StatusBadRequest, status(CallError(reverts.ErrCooldownActive)))
	assert.Equal(t, http.StatusInternalServerError, status(CallError(errors.New("disk full"))))
}

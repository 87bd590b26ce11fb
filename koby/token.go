// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package koby

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"slices"
	"strconv"
)

// TokenID identifies a non-fungible asset held in custody.
type TokenID Bytes32

var (
	_ encoding.TextMarshaler   = TokenID{}
	_ encoding.TextUnmarshaler = (*TokenID)(nil)
)

// NumberToTokenID left pads n into a token id, the way sequentially minted ids are formed.
func NumberToTokenID(n uint64) TokenID {
	var id TokenID
	binary.BigEndian.PutUint64(id[24:], n)
	return id
}

// ParseTokenID accepts the 32 byte hex form, or a decimal sequence number.
func ParseTokenID(s string) (TokenID, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumberToTokenID(n), nil
	}
	b, err := ParseBytes32(s)
	if err != nil {
		return TokenID{}, err
	}
	return TokenID(b), nil
}

func (t TokenID) String() string {
	return Bytes32(t).String()
}

func (t TokenID) Bytes() []byte {
	return t[:]
}

func (t TokenID) IsZero() bool {
	return t == TokenID{}
}

// Compare orders token ids by their big-endian byte value.
func (t TokenID) Compare(other TokenID) int {
	return bytes.Compare(t[:], other[:])
}

// MarshalText encodes the id in hex, so it survives JSON by value and as a map key.
func (t TokenID) MarshalText() ([]byte, error) {
	return Bytes32(t).MarshalText()
}

func (t *TokenID) UnmarshalText(text []byte) error {
	parsed, err := ParseTokenID(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SortTokens orders ids ascending in place and reports the first repeated id, if any.
func SortTokens(ids []TokenID) (dup TokenID, found bool) {
	slices.SortFunc(ids, TokenID.Compare)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return ids[i], true
		}
	}
	return TokenID{}, false
}

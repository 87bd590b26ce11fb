// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package koby

import (
	"encoding"
	"errors"
	"strings"
)

// IdentityKind tells which kind of principal an Identity refers to.
type IdentityKind uint8

const (
	KindNone IdentityKind = iota
	KindAddress
	KindContract
)

func (k IdentityKind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindContract:
		return "contract"
	default:
		return "none"
	}
}

// Identity is an externally authenticated principal. It is only ever compared for equality.
type Identity struct {
	Kind  IdentityKind
	Value Bytes32
}

var (
	_ encoding.TextMarshaler   = Identity{}
	_ encoding.TextUnmarshaler = (*Identity)(nil)
)

// AddressIdentity returns the identity of an externally owned account.
func AddressIdentity(addr Bytes32) Identity {
	return Identity{Kind: KindAddress, Value: addr}
}

// ContractIdentity returns the identity of a contract.
func ContractIdentity(id Bytes32) Identity {
	return Identity{Kind: KindContract, Value: id}
}

// BytesToAddressIdentity is a shorthand for address identities built from short byte strings.
func BytesToAddressIdentity(b []byte) Identity {
	return AddressIdentity(BytesToBytes32(b))
}

// IsZero returns true for the unset identity.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// Bytes returns the 33 byte form, kind first.
func (id Identity) Bytes() []byte {
	b := make([]byte, 0, 33)
	b = append(b, byte(id.Kind))
	return append(b, id.Value[:]...)
}

func (id Identity) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Kind.String() + ":" + id.Value.String()
}

// ParseIdentity parses "address:0x…" or "contract:0x…". A bare hex string is read as an address.
// The empty string, and "none" with a zero value, parse to the zero identity.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return Identity{}, nil
	}
	kind := KindAddress
	if i := strings.IndexByte(s, ':'); i >= 0 {
		switch strings.ToLower(s[:i]) {
		case "address":
			kind = KindAddress
		case "contract":
			kind = KindContract
		case "none":
			if v, err := ParseBytes32(s[i+1:]); err != nil || !v.IsZero() {
				return Identity{}, errors.New("invalid identity: none kind with a value")
			}
			return Identity{}, nil
		default:
			return Identity{}, errors.New("invalid identity kind")
		}
		s = s[i+1:]
	}
	v, err := ParseBytes32(s)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Kind: kind, Value: v}, nil
}

// MarshalText implements encoding.TextMarshaler, so identities encode as strings in JSON, YAML and map keys.
// The zero identity encodes as the empty string.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

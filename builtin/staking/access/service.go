// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/koby"
)

var (
	slotOwner       = koby.BytesToBytes32([]byte(("access-owner")))
	slotPaused      = koby.BytesToBytes32([]byte(("access-paused")))
	slotInitialized = koby.BytesToBytes32([]byte(("access-initialized")))
)

// Service manages the administrator identity and the circuit breaker.
type Service struct {
	owner       *solidity.Identity
	paused      *solidity.Bool
	initialized *solidity.Bool
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		owner:       solidity.NewIdentity(sctx, slotOwner),
		paused:      solidity.NewBool(sctx, slotPaused),
		initialized: solidity.NewBool(sctx, slotInitialized),
	}
}

// Initialize sets the first owner. It can only happen once.
func (s *Service) Initialize(owner koby.Identity) error {
	initialized, err := s.initialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.ErrAlreadyInitialized
	}
	s.initialized.Set(true)
	return s.owner.Set(owner)
}

func (s *Service) IsInitialized() (bool, error) {
	return s.initialized.Get()
}

func (s *Service) Owner() (koby.Identity, error) {
	return s.owner.Get()
}

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
// An unset owner matches nobody.
func (s *Service) RequireOwner(caller koby.Identity) error {
	owner, err := s.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != caller {
		return reverts.ErrUnauthorized
	}
	return nil
}

// RequireNotPaused fails with ErrContractPaused while the circuit breaker is on.
func (s *Service) RequireNotPaused() error {
	paused, err := s.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrContractPaused
	}
	return nil
}

// TransferOwnership hands the contract to newOwner immediately, returning the previous owner.
func (s *Service) TransferOwnership(caller, newOwner koby.Identity) (koby.Identity, error) {
	if err := s.RequireOwner(caller); err != nil {
		return koby.Identity{}, err
	}
	if err := s.owner.Set(newOwner); err != nil {
		return koby.Identity{}, err
	}
	return caller, nil
}

func (s *Service) IsPaused() (bool, error) {
	return s.paused.Get()
}

// SetPaused toggles the circuit breaker. Setting the current value again is allowed.
func (s *Service) SetPaused(caller koby.Identity, paused bool) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}
	s.paused.Set(paused)
	return nil
}

// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
)

var (
	slotRecords = koby.BytesToBytes32([]byte(("stakes-records")))

	// per staker token list
	slotStakerHead  = koby.BytesToBytes32([]byte(("stakes-staker-head")))
	slotStakerTail  = koby.BytesToBytes32([]byte(("stakes-staker-tail")))
	slotStakerCount = koby.BytesToBytes32([]byte(("stakes-staker-count")))
	slotStakerNext  = koby.BytesToBytes32([]byte(("stakes-staker-next")))
	slotStakerPrev  = koby.BytesToBytes32([]byte(("stakes-staker-prev")))
)

// Repository owns the stake records, keyed by token, and indexes them by staker.
type Repository struct {
	records *solidity.Mapping[koby.TokenID, *Record]
	stakers *stakerList
}

func NewRepository(sctx *solidity.Context) *Repository {
	return &Repository{
		records: solidity.NewMapping[koby.TokenID, *Record](sctx, slotRecords),
		stakers: newStakerList(sctx, slotStakerHead, slotStakerTail, slotStakerCount, slotStakerNext, slotStakerPrev),
	}
}

// Get returns the record of token, or nil if the token is not staked.
func (r *Repository) Get(token koby.TokenID) (*Record, error) {
	rec, err := r.records.Get(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	if rec.IsEmpty() {
		return nil, nil
	}
	return rec, nil
}

// Add stores a new record and links it to its staker.
func (r *Repository) Add(token koby.TokenID, rec *Record) error {
	if rec.IsEmpty() {
		return errors.New("empty stake record")
	}
	if err := r.records.Set(token, rec); err != nil {
		return errors.Wrap(err, "failed to set stake record")
	}
	if err := r.stakers.Add(rec.Staker, token); err != nil {
		return errors.Wrap(err, "failed to link stake record")
	}
	return nil
}

// Update overwrites an existing record. The staker must not change.
func (r *Repository) Update(token koby.TokenID, rec *Record) error {
	if err := r.records.Set(token, rec); err != nil {
		return errors.Wrap(err, "failed to update stake record")
	}
	return nil
}

// Remove deletes the record of token.
func (r *Repository) Remove(token koby.TokenID, rec *Record) error {
	if err := r.stakers.Remove(rec.Staker, token); err != nil {
		return errors.Wrap(err, "failed to unlink stake record")
	}
	r.records.Delete(token)
	return nil
}

// TokensOf returns tokens staked by staker, in stake order.
func (r *Repository) TokensOf(staker koby.Identity) ([]koby.TokenID, error) {
	n, err := r.stakers.Len(staker)
	if err != nil {
		return nil, err
	}
	tokens := make([]koby.TokenID, 0, n)
	err = r.stakers.Iter(staker, func(token koby.TokenID) error {
		tokens = append(tokens, token)
		return nil
	})
	return tokens, err
}

// CountOf returns the number of tokens staked by staker.
func (r *Repository) CountOf(staker koby.Identity) (uint64, error) {
	return r.stakers.Len(staker)
}

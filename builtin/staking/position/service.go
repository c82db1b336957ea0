// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/builtin/staking/pool"
	"github.com/taxtoken/core/tax"
)

var (
	ErrInsufficientStake  = reverts.New("insufficient stake")
	ErrSettlementPending  = reverts.New("too many terms to settle, call settle first")
	ErrArithmeticOverflow = reverts.New("arithmetic overflow")
)

var slotPositions = tax.BytesToBytes32([]byte("positions"))

type positionKey = solidity.PairKey[tax.Address, tax.Address]

// Service keeps the positions of accounts and settles them against the pool terms.
type Service struct {
	positions *solidity.Mapping[positionKey, *Position]
	pools     *pool.Service
}

func New(sctx *solidity.Context, pools *pool.Service) *Service {
	return &Service{
		positions: solidity.NewMapping[positionKey, *Position](sctx, slotPositions),
		pools:     pools,
	}
}

// Get returns the stored position. A missing position reads as empty at term.
func (s *Service) Get(account, asset tax.Address, term uint64) (*Position, error) {
	pos, err := s.positions.Get(solidity.NewPairKey(account, asset))
	if err != nil {
		return nil, errors.Wrap(err, "get position")
	}
	if pos == nil {
		return newPosition(term), nil
	}
	return pos, nil
}

func (s *Service) set(account, asset tax.Address, pos *Position) error {
	key := solidity.NewPairKey(account, asset)
	if pos.IsEmpty() {
		s.positions.Delete(key)
		return nil
	}
	if err := s.positions.Set(key, pos); err != nil {
		return errors.Wrap(err, "set position")
	}
	return nil
}

// settle walks pos forward from UserTerm towards currentTerm, at most maxStep terms.
// It reports whether pos reached currentTerm.
func (s *Service) settle(asset tax.Address, pos *Position, currentTerm, maxStep uint64) (bool, error) {
	if pos.UserTerm >= currentTerm {
		return true, nil
	}
	if pos.Total().Sign() == 0 {
		// nothing staked, nothing to earn
		pos.UserTerm = currentTerm
		return true, nil
	}

	end := currentTerm
	if limit := pos.UserTerm + maxStep; end > limit {
		end = limit
	}
	for t := pos.UserTerm; t < end; t++ {
		rec, err := s.pools.Term(asset, t)
		if err != nil {
			return false, err
		}
		if denom := rec.ClosingStake(); denom.Sign() > 0 && rec.RewardSum.Sign() > 0 {
			share, ok := tax.MulDiv(pos.Total(), rec.RewardSum, denom)
			if !ok {
				return false, ErrArithmeticOverflow
			}
			pos.Accrued.Add(pos.Accrued, share)
		}
		pos.Stake.Add(pos.Stake, pos.NextAdded)
		pos.NextAdded.SetUint64(0)
	}
	pos.UserTerm = end
	return end == currentTerm, nil
}

// Settle settles the position of account in one capped pass and stores the progress.
func (s *Service) Settle(account, asset tax.Address, currentTerm, maxStep uint64) (*Position, bool, error) {
	pos, err := s.Get(account, asset, currentTerm)
	if err != nil {
		return nil, false, err
	}
	done, err := s.settle(asset, pos, currentTerm, maxStep)
	if err != nil {
		return nil, false, err
	}
	if err := s.set(account, asset, pos); err != nil {
		return nil, false, err
	}
	return pos, done, nil
}

// settled returns a caught up position or ErrSettlementPending.
func (s *Service) settled(account, asset tax.Address, currentTerm, maxStep uint64) (*Position, error) {
	pos, err := s.Get(account, asset, currentTerm)
	if err != nil {
		return nil, err
	}
	done, err := s.settle(asset, pos, currentTerm, maxStep)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrSettlementPending
	}
	return pos, nil
}

// Direct adds stake to the position and to the open term of the pool.
func (s *Service) Direct(account, asset tax.Address, amount *big.Int, currentTerm, maxStep uint64) error {
	pos, err := s.settled(account, asset, currentTerm, maxStep)
	if err != nil {
		return err
	}
	pos.NextAdded.Add(pos.NextAdded, amount)
	if err := s.pools.AddStake(asset, amount); err != nil {
		return err
	}
	return s.set(account, asset, pos)
}

// Undirect removes stake from the position, taking from NextAdded first.
// The removal is effective in the open term.
func (s *Service) Undirect(account, asset tax.Address, amount *big.Int, currentTerm, maxStep uint64) error {
	pos, err := s.settled(account, asset, currentTerm, maxStep)
	if err != nil {
		return err
	}
	if pos.Total().Cmp(amount) < 0 {
		return ErrInsufficientStake
	}

	fromNext := new(big.Int).Set(amount)
	if fromNext.Cmp(pos.NextAdded) > 0 {
		fromNext.Set(pos.NextAdded)
	}
	fromStake := new(big.Int).Sub(amount, fromNext)

	if fromNext.Sign() > 0 {
		pos.NextAdded.Sub(pos.NextAdded, fromNext)
		if err := s.pools.RemoveNextAdded(asset, fromNext); err != nil {
			return err
		}
	}
	if fromStake.Sign() > 0 {
		pos.Stake.Sub(pos.Stake, fromStake)
		if err := s.pools.RemoveStake(asset, fromStake); err != nil {
			return err
		}
	}
	return s.set(account, asset, pos)
}

// Claim settles the position and takes its accrued reward.
func (s *Service) Claim(account, asset tax.Address, currentTerm, maxStep uint64) (*big.Int, error) {
	pos, err := s.settled(account, asset, currentTerm, maxStep)
	if err != nil {
		return nil, err
	}
	reward := new(big.Int).Set(pos.Accrued)
	pos.Accrued.SetUint64(0)
	if err := s.set(account, asset, pos); err != nil {
		return nil, err
	}
	return reward, nil
}

// Pending returns the position projected to currentTerm by one capped pass without storing it,
// and the reward not yet settled: the projected part plus the share of the open term so far.
func (s *Service) Pending(account, asset tax.Address, currentTerm, maxStep uint64) (*Position, *big.Int, error) {
	stored, err := s.Get(account, asset, currentTerm)
	if err != nil {
		return nil, nil, err
	}
	pos := stored.clone()
	done, err := s.settle(asset, pos, currentTerm, maxStep)
	if err != nil {
		return nil, nil, err
	}
	pending := new(big.Int).Sub(pos.Accrued, stored.Accrued)
	if !done {
		return pos, pending, nil
	}

	rec, err := s.pools.Term(asset, currentTerm)
	if err != nil {
		return nil, nil, err
	}
	if denom := rec.ClosingStake(); denom.Sign() > 0 && rec.RewardSum.Sign() > 0 {
		share, ok := tax.MulDiv(pos.Total(), rec.RewardSum, denom)
		if !ok {
			return nil, nil, ErrArithmeticOverflow
		}
		pending.Add(pending, share)
	}
	return pos, pending, nil
}

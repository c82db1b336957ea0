// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/taxtoken/core/tax"
)

// TokenInfo summarizes a pool.
type TokenInfo struct {
	CurrentTerm           uint64
	LatestTerm            uint64
	TotalRemainingRewards *big.Int
	CurrentReward         *big.Int // reward of the last closed term
	NextTermRewards       *big.Int // reward of the open term so far
	CurrentStaking        *big.Int
	NextTermStaking       *big.Int
}

// TermInfo is a term record with its pool clock.
type TermInfo struct {
	StakeAdd  *big.Int
	StakeSum  *big.Int
	RewardSum *big.Int
	Start     uint64
	Interval  uint64
}

// AccountInfo is the stored position of an account in a pool and its unsettled reward.
type AccountInfo struct {
	UserTerm             uint64
	StakeAmount          *big.Int
	NextAddedStakeAmount *big.Int
	AccruedReward        *big.Int
	PendingReward        *big.Int
	TotalDeposited       *big.Int
	VoteLocked           *big.Int
	Withdrawable         *big.Int
	Target               *tax.Address
}

// GetTokenInfo returns the state of the pool of asset.
func (s *Staking) GetTokenInfo(asset tax.Address, now uint64) (*TokenInfo, error) {
	p, err := s.pools.Get(asset)
	if err != nil {
		return nil, err
	}
	open, err := s.pools.Term(asset, p.CurrentTerm)
	if err != nil {
		return nil, err
	}
	current := new(big.Int)
	if p.CurrentTerm > 0 {
		closed, err := s.pools.Term(asset, p.CurrentTerm-1)
		if err != nil {
			return nil, err
		}
		current = closed.RewardSum
	}
	return &TokenInfo{
		CurrentTerm:           p.CurrentTerm,
		LatestTerm:            p.ElapsedTerm(now),
		TotalRemainingRewards: p.Remaining,
		CurrentReward:         current,
		NextTermRewards:       open.RewardSum,
		CurrentStaking:        open.StakeSum,
		NextTermStaking:       open.ClosingStake(),
	}, nil
}

// GetTermInfo returns a term record of the pool of asset.
func (s *Staking) GetTermInfo(asset tax.Address, term uint64) (*TermInfo, error) {
	p, err := s.pools.Get(asset)
	if err != nil {
		return nil, err
	}
	rec, err := s.pools.Term(asset, term)
	if err != nil {
		return nil, err
	}
	return &TermInfo{
		StakeAdd:  rec.StakeAdd,
		StakeSum:  rec.StakeSum,
		RewardSum: rec.RewardSum,
		Start:     p.Start,
		Interval:  p.Interval,
	}, nil
}

// GetAccountInfo returns the position of account in the pool of asset.
func (s *Staking) GetAccountInfo(asset, account tax.Address) (*AccountInfo, error) {
	p, err := s.pools.Get(asset)
	if err != nil {
		return nil, err
	}
	pos, err := s.positions.Get(account, asset, p.CurrentTerm)
	if err != nil {
		return nil, err
	}
	_, pending, err := s.positions.Pending(account, asset, p.CurrentTerm, s.pools.MaxStep())
	if err != nil {
		return nil, err
	}
	global, err := s.votelock.Get(account)
	if err != nil {
		return nil, err
	}
	target, err := s.StakeTarget(account)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		UserTerm:             pos.UserTerm,
		StakeAmount:          pos.Stake,
		NextAddedStakeAmount: pos.NextAdded,
		AccruedReward:        pos.Accrued,
		PendingReward:        pending,
		TotalDeposited:       global.TotalDeposited,
		VoteLocked:           global.VoteLocked,
		Withdrawable:         global.Withdrawable(),
		Target:               target,
	}, nil
}

// GetVoteNum returns the voting power of account, its total deposited stake.
func (s *Staking) GetVoteNum(account tax.Address) (*big.Int, error) {
	global, err := s.votelock.Get(account)
	if err != nil {
		return nil, err
	}
	return global.TotalDeposited, nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"
)

// Position is the stake of an account in one pool.
type Position struct {
	UserTerm  uint64   // first term not yet settled
	Stake     *big.Int // settled stake
	NextAdded *big.Int // added while UserTerm is open
	Accrued   *big.Int // settled, claimable reward
}

func newPosition(term uint64) *Position {
	return &Position{
		UserTerm:  term,
		Stake:     new(big.Int),
		NextAdded: new(big.Int),
		Accrued:   new(big.Int),
	}
}

// Total returns the stake directed to the pool, effective or not.
func (p *Position) Total() *big.Int {
	return new(big.Int).Add(p.Stake, p.NextAdded)
}

// IsEmpty returns whether the position holds neither stake nor reward.
func (p *Position) IsEmpty() bool {
	return p.Stake.Sign() == 0 && p.NextAdded.Sign() == 0 && p.Accrued.Sign() == 0
}

func (p *Position) clone() *Position {
	return &Position{
		UserTerm:  p.UserTerm,
		Stake:     new(big.Int).Set(p.Stake),
		NextAdded: new(big.Int).Set(p.NextAdded),
		Accrued:   new(big.Int).Set(p.Accrued),
	}
}

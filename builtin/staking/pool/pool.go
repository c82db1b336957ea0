// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
)

// Pool is a reward ledger with its own term clock.
type Pool struct {
	Start       uint64
	Interval    uint64
	CurrentTerm uint64   // the open term
	Remaining   *big.Int // rewards deposited minus rewards paid out
}

// ElapsedTerm returns the term that is open at now.
func (p *Pool) ElapsedTerm(now uint64) uint64 {
	if now < p.Start {
		return 0
	}
	return (now - p.Start) / p.Interval
}

// TermRecord is the aggregate of one term of a pool.
type TermRecord struct {
	StakeAdd  *big.Int // added while the term is open, effective from the next term
	StakeSum  *big.Int // effective during the term
	RewardSum *big.Int
}

func newTermRecord() *TermRecord {
	return &TermRecord{
		StakeAdd:  new(big.Int),
		StakeSum:  new(big.Int),
		RewardSum: new(big.Int),
	}
}

// ClosingStake is the stake the reward of the term is shared over.
func (r *TermRecord) ClosingStake() *big.Int {
	return new(big.Int).Add(r.StakeSum, r.StakeAdd)
}

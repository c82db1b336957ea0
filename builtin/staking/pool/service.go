// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/tax"
)

var logger = log.New("pkg", "pool")

var (
	ErrUnknownPool     = reverts.New("the pool is not registered")
	ErrPoolExists      = reverts.New("the pool is already registered")
	ErrInvalidPool     = reverts.New("the pool interval must be positive")
	ErrStakeUnderflow  = reverts.New("pool stake underflow")
	ErrRewardUnderflow = reverts.New("pool remaining rewards underflow")
)

var (
	slotPools = tax.BytesToBytes32([]byte("pools"))
	slotTerms = tax.BytesToBytes32([]byte("terms"))
	slotIndex = tax.BytesToBytes32([]byte("pool-index"))
)

type termKey = solidity.PairKey[tax.Address, solidity.Uint64Key]

// Service keeps the pools and their term records.
type Service struct {
	pools   *solidity.Mapping[tax.Address, *Pool]
	terms   *solidity.Mapping[termKey, *TermRecord]
	index   *solidity.Raw[[]tax.Address]
	maxStep uint64
}

func New(sctx *solidity.Context, maxStep uint64) *Service {
	return &Service{
		pools:   solidity.NewMapping[tax.Address, *Pool](sctx, slotPools),
		terms:   solidity.NewMapping[termKey, *TermRecord](sctx, slotTerms),
		index:   solidity.NewRaw[[]tax.Address](sctx, slotIndex),
		maxStep: maxStep,
	}
}

// MaxStep returns the maximum number of terms a single call may walk.
func (s *Service) MaxStep() uint64 {
	return s.maxStep
}

// Register creates the pool of asset.
func (s *Service) Register(asset tax.Address, start, interval uint64) error {
	if interval == 0 {
		return ErrInvalidPool
	}
	existing, err := s.pools.Get(asset)
	if err != nil {
		return errors.Wrap(err, "get pool")
	}
	if existing != nil {
		return ErrPoolExists
	}
	index, err := s.index.Get()
	if err != nil {
		return errors.Wrap(err, "get pool index")
	}
	if err := s.index.Set(append(index, asset)); err != nil {
		return errors.Wrap(err, "set pool index")
	}
	if err := s.setTerm(asset, 0, newTermRecord()); err != nil {
		return err
	}
	return s.pools.Set(asset, &Pool{
		Start:     start,
		Interval:  interval,
		Remaining: new(big.Int),
	})
}

// Pools lists the registered pools in registration order.
func (s *Service) Pools() ([]tax.Address, error) {
	index, err := s.index.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get pool index")
	}
	return index, nil
}

// Get returns the stored pool, failing with ErrUnknownPool.
func (s *Service) Get(asset tax.Address) (*Pool, error) {
	p, err := s.pools.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "get pool")
	}
	if p == nil {
		return nil, ErrUnknownPool
	}
	return p, nil
}

// Term returns the record of a term. Terms never written read as zero.
func (s *Service) Term(asset tax.Address, term uint64) (*TermRecord, error) {
	rec, err := s.terms.Get(solidity.NewPairKey(asset, solidity.Uint64Key(term)))
	if err != nil {
		return nil, errors.Wrap(err, "get term")
	}
	if rec == nil {
		return newTermRecord(), nil
	}
	return rec, nil
}

func (s *Service) setTerm(asset tax.Address, term uint64, rec *TermRecord) error {
	if err := s.terms.Set(solidity.NewPairKey(asset, solidity.Uint64Key(term)), rec); err != nil {
		return errors.Wrap(err, "set term")
	}
	return nil
}

// Advance opens the term elapsed at now, walking at most MaxStep terms.
// Every closed term finalizes the stake of its successor.
func (s *Service) Advance(asset tax.Address, now uint64) (*Pool, error) {
	p, err := s.Get(asset)
	if err != nil {
		return nil, err
	}
	target := p.ElapsedTerm(now)
	if limit := p.CurrentTerm + s.maxStep; target > limit {
		target = limit
	}
	if target <= p.CurrentTerm {
		return p, nil
	}

	rec, err := s.Term(asset, p.CurrentTerm)
	if err != nil {
		return nil, err
	}
	for t := p.CurrentTerm; t < target; t++ {
		next := newTermRecord()
		next.StakeSum = rec.ClosingStake()
		if err := s.setTerm(asset, t+1, next); err != nil {
			return nil, err
		}
		rec = next
	}
	logger.Debug("pool advanced", "pool", asset, "from", p.CurrentTerm, "to", target)

	p.CurrentTerm = target
	if err := s.pools.Set(asset, p); err != nil {
		return nil, errors.Wrap(err, "set pool")
	}
	return p, nil
}

// update applies fn to the open term of an already advanced pool.
func (s *Service) update(asset tax.Address, fn func(p *Pool, rec *TermRecord) error) error {
	p, err := s.Get(asset)
	if err != nil {
		return err
	}
	rec, err := s.Term(asset, p.CurrentTerm)
	if err != nil {
		return err
	}
	if err := fn(p, rec); err != nil {
		return err
	}
	if err := s.setTerm(asset, p.CurrentTerm, rec); err != nil {
		return err
	}
	return s.pools.Set(asset, p)
}

// DepositReward advances the pool and credits the open term.
func (s *Service) DepositReward(asset tax.Address, amount *big.Int, now uint64) error {
	if _, err := s.Advance(asset, now); err != nil {
		return err
	}
	return s.update(asset, func(p *Pool, rec *TermRecord) error {
		rec.RewardSum.Add(rec.RewardSum, amount)
		p.Remaining.Add(p.Remaining, amount)
		return nil
	})
}

// AddStake credits stake that becomes effective next term.
func (s *Service) AddStake(asset tax.Address, amount *big.Int) error {
	return s.update(asset, func(_ *Pool, rec *TermRecord) error {
		rec.StakeAdd.Add(rec.StakeAdd, amount)
		return nil
	})
}

// RemoveNextAdded reverses AddStake within the open term.
func (s *Service) RemoveNextAdded(asset tax.Address, amount *big.Int) error {
	return s.update(asset, func(_ *Pool, rec *TermRecord) error {
		if rec.StakeAdd.Cmp(amount) < 0 {
			return ErrStakeUnderflow
		}
		rec.StakeAdd.Sub(rec.StakeAdd, amount)
		return nil
	})
}

// RemoveStake reduces the effective stake of the open term.
func (s *Service) RemoveStake(asset tax.Address, amount *big.Int) error {
	return s.update(asset, func(_ *Pool, rec *TermRecord) error {
		if rec.StakeSum.Cmp(amount) < 0 {
			return ErrStakeUnderflow
		}
		rec.StakeSum.Sub(rec.StakeSum, amount)
		return nil
	})
}

// PayOut records rewards leaving the pool.
func (s *Service) PayOut(asset tax.Address, amount *big.Int) error {
	p, err := s.Get(asset)
	if err != nil {
		return err
	}
	if p.Remaining.Cmp(amount) < 0 {
		return ErrRewardUnderflow
	}
	p.Remaining.Sub(p.Remaining, amount)
	return s.pools.Set(asset, p)
}

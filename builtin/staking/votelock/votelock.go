// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package votelock tracks the stake each account has deposited and the part of it locked by votes.
// Locking and unlocking require the capability, handed out once per state object.
package votelock

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/tax"
)

var (
	ErrInsufficientWithdrawable = reverts.New("insufficient withdrawable stake")
	ErrUnderflow                = reverts.New("vote lock underflow")
	ErrUnauthorized             = reverts.New("caller is not authorized to lock stake")
	ErrCapabilityIssued         = errors.New("vote lock capability already issued")
)

var (
	slotStakes      = tax.BytesToBytes32([]byte("global-stakes"))
	claimCapability = tax.BytesToBytes32([]byte("vote-lock-capability"))
)

// AccountGlobalStake is the stake of an account across all pools.
type AccountGlobalStake struct {
	TotalDeposited *big.Int
	VoteLocked     *big.Int
}

// Withdrawable returns the deposited stake not locked by votes.
func (a *AccountGlobalStake) Withdrawable() *big.Int {
	return new(big.Int).Sub(a.TotalDeposited, a.VoteLocked)
}

// Capability authorizes Commit and Release.
type Capability struct {
	_ byte
}

type Service struct {
	sctx   *solidity.Context
	stakes *solidity.Mapping[tax.Address, *AccountGlobalStake]
	issued *Capability
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:   sctx,
		stakes: solidity.NewMapping[tax.Address, *AccountGlobalStake](sctx, slotStakes),
	}
}

// IssueCapability returns the lock capability. It succeeds once per state object, whatever
// service over that state asks for it.
func (s *Service) IssueCapability() (*Capability, error) {
	if s.issued != nil || !s.sctx.State().Claim(s.sctx.Address(), claimCapability) {
		return nil, ErrCapabilityIssued
	}
	s.issued = &Capability{}
	return s.issued, nil
}

// Get returns the global stake of account.
func (s *Service) Get(account tax.Address) (*AccountGlobalStake, error) {
	st, err := s.stakes.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "get global stake")
	}
	if st == nil {
		return &AccountGlobalStake{TotalDeposited: new(big.Int), VoteLocked: new(big.Int)}, nil
	}
	return st, nil
}

func (s *Service) update(account tax.Address, fn func(st *AccountGlobalStake) error) error {
	st, err := s.Get(account)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	if st.TotalDeposited.Sign() == 0 && st.VoteLocked.Sign() == 0 {
		s.stakes.Delete(account)
		return nil
	}
	if err := s.stakes.Set(account, st); err != nil {
		return errors.Wrap(err, "set global stake")
	}
	return nil
}

// Deposit credits stake deposited by account.
func (s *Service) Deposit(account tax.Address, amount *big.Int) error {
	return s.update(account, func(st *AccountGlobalStake) error {
		st.TotalDeposited.Add(st.TotalDeposited, amount)
		return nil
	})
}

// Withdraw debits deposited stake. Locked stake cannot leave.
func (s *Service) Withdraw(account tax.Address, amount *big.Int) error {
	return s.update(account, func(st *AccountGlobalStake) error {
		if st.Withdrawable().Cmp(amount) < 0 {
			return ErrInsufficientWithdrawable
		}
		st.TotalDeposited.Sub(st.TotalDeposited, amount)
		return nil
	})
}

// Commit locks amount of the withdrawable stake of account.
func (s *Service) Commit(c *Capability, account tax.Address, amount *big.Int) error {
	if c == nil || c != s.issued {
		return ErrUnauthorized
	}
	return s.update(account, func(st *AccountGlobalStake) error {
		if st.Withdrawable().Cmp(amount) < 0 {
			return ErrInsufficientWithdrawable
		}
		st.VoteLocked.Add(st.VoteLocked, amount)
		return nil
	})
}

// Release unlocks amount previously committed.
func (s *Service) Release(c *Capability, account tax.Address, amount *big.Int) error {
	if c == nil || c != s.issued {
		return ErrUnauthorized
	}
	return s.update(account, func(st *AccountGlobalStake) error {
		if st.VoteLocked.Cmp(amount) < 0 {
			return ErrUnderflow
		}
		st.VoteLocked.Sub(st.VoteLocked, amount)
		return nil
	})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the single writer of the token economy. Every mutation runs atomically
// against the state, at the time read once from the clock, and is committed to the store
// or discarded as a whole.
package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin"
	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/clock"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var logger = log.New("pkg", "ledger")

// Options tunes a ledger.
type Options struct {
	MaxTermStep uint64                   // zero means tax.MaxTermStep
	Turnout     governance.TurnoutPolicy // nil ignores the minimum vote
}

// Ledger serializes all operations on the staking ledger and the governance engine.
type Ledger struct {
	mu    sync.Mutex
	state *state.State
	clock clock.Clock

	token      tax.Address
	bank       *bank.Bank
	staking    *staking.Staking
	governance *governance.Governance
	whitelist  *whitelist.Whitelist
	incentive  *incentive.Incentive
}

// New binds a ledger to a state that genesis was applied to.
func New(st *state.State, clk clock.Clock, opts Options) (*Ledger, error) {
	raw, err := builtin.Params.WithState(st).Get(tax.KeyStakingToken)
	if err != nil {
		return nil, err
	}
	if raw.Sign() == 0 {
		return nil, errors.New("staking token not configured, genesis not applied")
	}
	token := tax.BytesToAddress(raw.Bytes())

	stk := builtin.Staking.WithState(st, token, opts.MaxTermStep)
	gov, err := builtin.Governance.WithState(st, stk, opts.Turnout)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		state:      st,
		clock:      clk,
		token:      token,
		bank:       builtin.Bank.WithState(st),
		staking:    stk,
		governance: gov,
		whitelist:  builtin.Whitelist.WithState(st),
		incentive:  builtin.Incentive.WithState(st),
	}
	if count, err := gov.GetProposalCount(); err == nil {
		metricProposalGauge().Set(int64(count))
	}
	return l, nil
}

// Token returns the staking token.
func (l *Ledger) Token() tax.Address {
	return l.token
}

// Now returns the ledger time.
func (l *Ledger) Now() uint64 {
	return l.clock.Now()
}

// exec runs fn as one atomic step.
func (l *Ledger) exec(op string, fn func(now uint64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	now := l.clock.Now()
	cp := l.state.NewCheckpoint()

	err := fn(now)
	if err == nil {
		if _, err = l.state.Commit(); err != nil {
			logger.Error("failed to commit", "op", op, "err", err)
		}
	}

	result := "ok"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		result = "reverted"
		logger.Debug("operation reverted", "op", op, "reason", err)
	default:
		result = "failed"
		logger.Warn("operation failed", "op", op, "err", err)
	}
	if err != nil {
		l.state.RevertTo(cp)
	}

	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metricOpDuration().Observe(time.Since(start).Milliseconds())
	return err
}

// view runs fn under the lock without touching the journal.
func (l *Ledger) view(fn func(now uint64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.clock.Now())
}

//
// Token primitive
//

func (l *Ledger) Transfer(asset, from, to tax.Address, amount *big.Int) error {
	return l.exec("transfer", func(uint64) error {
		return l.bank.Transfer(asset, from, to, amount)
	})
}

func (l *Ledger) Approve(asset, owner, spender tax.Address, amount *big.Int) error {
	return l.exec("approve", func(uint64) error {
		return l.bank.Approve(asset, owner, spender, amount)
	})
}

func (l *Ledger) BalanceOf(asset, account tax.Address) (balance *big.Int, err error) {
	err = l.view(func(uint64) error {
		balance, err = l.bank.BalanceOf(asset, account)
		return err
	})
	return
}

func (l *Ledger) Allowance(asset, owner, spender tax.Address) (allowance *big.Int, err error) {
	err = l.view(func(uint64) error {
		allowance, err = l.bank.Allowance(asset, owner, spender)
		return err
	})
	return
}

func (l *Ledger) TotalSupply(asset tax.Address) (supply *big.Int, err error) {
	err = l.view(func(uint64) error {
		supply, err = l.bank.TotalSupply(asset)
		return err
	})
	return
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/params"
	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

// Builtin contracts binding.
var (
	Params     = &paramsContract{newContract("Params")}
	Bank       = &bankContract{newContract("Bank")}
	Staking    = &stakingContract{newContract("Staking")}
	Governance = &governanceContract{newContract("Governance")}
	Whitelist  = &whitelistContract{newContract("Whitelist")}
	Incentive  = &incentiveContract{newContract("Incentive")}
)

type (
	paramsContract     struct{ *contract }
	bankContract       struct{ *contract }
	stakingContract    struct{ *contract }
	governanceContract struct{ *contract }
	whitelistContract  struct{ *contract }
	incentiveContract  struct{ *contract }
)

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (b *bankContract) WithState(state *state.State) *bank.Bank {
	return bank.New(b.Address, state)
}

func (s *stakingContract) WithState(state *state.State, token tax.Address, maxStep uint64) *staking.Staking {
	return staking.New(s.Address, state, Bank.WithState(state), token, maxStep)
}

func (w *whitelistContract) WithState(state *state.State) *whitelist.Whitelist {
	return whitelist.New(w.Address, state)
}

func (i *incentiveContract) WithState(state *state.State) *incentive.Incentive {
	return incentive.New(i.Address, state)
}

// WithState binds governance to the vote-lock layer of stk. It fails if stk already has an engine.
func (g *governanceContract) WithState(
	state *state.State,
	stk *staking.Staking,
	turnout governance.TurnoutPolicy,
) (*governance.Governance, error) {
	return governance.New(
		g.Address,
		state,
		Params.WithState(state),
		Bank.WithState(state),
		stk.Token(),
		stk.VoteLock(),
		Whitelist.WithState(state),
		Incentive.WithState(state),
		turnout,
	)
}

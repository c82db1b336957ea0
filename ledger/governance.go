// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/tax"
)

// Propose submits a proposal of any kind.
func (l *Ledger) Propose(proposer tax.Address, payload governance.Payload) (id tax.Bytes32, err error) {
	err = l.exec("propose", func(now uint64) error {
		id, err = l.governance.Propose(proposer, payload, now)
		return err
	})
	if err == nil {
		metricProposalGauge().Add(1)
	}
	return
}

func (l *Ledger) ProposeCoreParameterUpdate(proposer tax.Address, p governance.CoreParameters) (tax.Bytes32, error) {
	return l.Propose(proposer, governance.CoreParameterUpdate{Parameters: p})
}

func (l *Ledger) ProposeWhitelistRegister(proposer, asset, oracle tax.Address) (tax.Bytes32, error) {
	return l.Propose(proposer, governance.WhitelistRegister{Asset: asset, Oracle: oracle})
}

func (l *Ledger) ProposeWhitelistDelist(proposer, asset tax.Address) (tax.Bytes32, error) {
	return l.Propose(proposer, governance.WhitelistDelist{Asset: asset})
}

func (l *Ledger) ProposeIncentiveFundUpdate(proposer tax.Address, allocations []incentive.Allocation) (tax.Bytes32, error) {
	return l.Propose(proposer, governance.IncentiveFundUpdate{Allocations: allocations})
}

func (l *Ledger) Vote(voter tax.Address, id tax.Bytes32, approval bool, amount *big.Int) error {
	return l.exec("vote", func(now uint64) error {
		return l.governance.Vote(voter, id, approval, amount, now)
	})
}

func (l *Ledger) LockIn(id tax.Bytes32) error {
	return l.exec("lockin", func(now uint64) error {
		return l.governance.LockIn(id, now)
	})
}

// Apply applies a proposal of any kind.
func (l *Ledger) Apply(id tax.Bytes32) error {
	return l.exec("apply", func(now uint64) error {
		return l.governance.Apply(id, now)
	})
}

func (l *Ledger) ApplyCoreParameterUpdate(id tax.Bytes32) error {
	return l.exec("apply", func(now uint64) error {
		return l.governance.ApplyCoreParameterUpdate(id, now)
	})
}

func (l *Ledger) ApplyWhitelistRegister(id tax.Bytes32) error {
	return l.exec("apply", func(now uint64) error {
		return l.governance.ApplyWhitelistRegister(id, now)
	})
}

func (l *Ledger) ApplyWhitelistDelist(id tax.Bytes32) error {
	return l.exec("apply", func(now uint64) error {
		return l.governance.ApplyWhitelistDelist(id, now)
	})
}

func (l *Ledger) ApplyIncentiveFundUpdate(id tax.Bytes32) error {
	return l.exec("apply", func(now uint64) error {
		return l.governance.ApplyIncentiveFundUpdate(id, now)
	})
}

// WithdrawVote releases the deposit of account on a proposal.
func (l *Ledger) WithdrawVote(account tax.Address, id tax.Bytes32) (amount *big.Int, err error) {
	err = l.exec("withdraw_vote", func(now uint64) error {
		amount, err = l.governance.Withdraw(account, id, now)
		return err
	})
	return
}

func (l *Ledger) GetProposals(offset, limit uint64) (list []*governance.Proposal, err error) {
	err = l.view(func(uint64) error {
		list, err = l.governance.GetProposals(offset, limit)
		return err
	})
	return
}

func (l *Ledger) GetProposal(id tax.Bytes32) (p *governance.Proposal, err error) {
	err = l.view(func(uint64) error {
		p, err = l.governance.GetProposal(id)
		return err
	})
	return
}

func (l *Ledger) GetCoreParameters() (cp governance.CoreParameters, err error) {
	err = l.view(func(uint64) error {
		cp, err = l.governance.GetCoreParameters()
		return err
	})
	return
}

func (l *Ledger) GetUserStatus(id tax.Bytes32, account tax.Address) (d *governance.VoteDeposit, err error) {
	err = l.view(func(uint64) error {
		d, err = l.governance.GetUserStatus(id, account)
		return err
	})
	return
}

// GetStatus returns the phase of a proposal at the ledger time.
func (l *Ledger) GetStatus(id tax.Bytes32) (status governance.Status, err error) {
	err = l.view(func(now uint64) error {
		status, err = l.governance.GetStatus(id, now)
		return err
	})
	return
}

func (l *Ledger) GetWhitelist() (list []whitelist.Entry, err error) {
	err = l.view(func(uint64) error {
		list, err = l.whitelist.List()
		return err
	})
	return
}

func (l *Ledger) GetIncentiveAllocations() (table []incentive.Allocation, err error) {
	err = l.view(func(uint64) error {
		table, err = l.incentive.Allocations()
		return err
	})
	return
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance runs token holder proposals through pre-vote, main vote, lock-in and apply.
// Every vote bonds stake through the vote-lock layer until the voter withdraws it.
package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/params"
	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/builtin/staking/votelock"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var logger = log.New("pkg", "governance")

var (
	ErrInvalidProposal     = reverts.New("the propose ID is invalid")
	ErrInvalidProposalKind = ErrInvalidProposal
	ErrDuplicateProposal   = reverts.New("the proposal already exists")
	ErrInvalidPayload      = reverts.New("invalid proposal payload")
	ErrInvalidParameters   = reverts.New("invalid core parameters")
	ErrZeroAmount          = reverts.New("the vote amount must be positive")
	ErrVotingClosed        = reverts.New("voting period has expired")
	ErrInsufficientQuorum  = reverts.New("insufficient amount for lockin")
	ErrStillVoting         = reverts.New("the proposal is still under voting period")
	ErrExpired             = reverts.New("the applicable period of the proposal has expired")
	ErrNotLockedIn         = reverts.New("the proposal has not been locked in")
	ErrAlreadyApplied      = reverts.New("the proposal has already been applied")
	ErrInsufficientTurnout = reverts.New("the approval does not reach the minimum vote")
	ErrDeniedByMajority    = reverts.New("the proposal is denied by majority of vote")
	ErrNoDeposit           = reverts.New("no deposit on the proposeId")
)

var paramKeys = [...]tax.Bytes32{
	tax.KeyPreVoteLength,
	tax.KeyTotalVoteLength,
	tax.KeyExpirationLength,
	tax.KeyMinVote,
	tax.KeyMinVoteCore,
	tax.KeyMinCommit,
}

// Governance implements the proposal lifecycle engine.
type Governance struct {
	registry  *registry
	params    *params.Params
	bank      *bank.Bank
	token     tax.Address
	locker    *votelock.Service
	cap       *votelock.Capability
	whitelist *whitelist.Whitelist
	incentive *incentive.Incentive
	turnout   TurnoutPolicy
}

// New create a new instance. It takes the vote-lock capability of locker, so only one
// engine can exist per vote-lock service.
func New(
	addr tax.Address,
	state *state.State,
	params *params.Params,
	bank *bank.Bank,
	token tax.Address,
	locker *votelock.Service,
	whitelist *whitelist.Whitelist,
	incentive *incentive.Incentive,
	turnout TurnoutPolicy,
) (*Governance, error) {
	c, err := locker.IssueCapability()
	if err != nil {
		return nil, err
	}
	if turnout == nil {
		turnout = IgnoreMinimumVote
	}
	return &Governance{
		registry:  newRegistry(solidity.NewContext(addr, state)),
		params:    params,
		bank:      bank,
		token:     token,
		locker:    locker,
		cap:       c,
		whitelist: whitelist,
		incentive: incentive,
		turnout:   turnout,
	}, nil
}

// LoadCoreParameters reads the engine parameters from the params store.
func LoadCoreParameters(p *params.Params) (CoreParameters, error) {
	var values [len(paramKeys)]uint64
	for i, key := range paramKeys {
		v, err := p.Get(key)
		if err != nil {
			return CoreParameters{}, err
		}
		if !v.IsUint64() {
			return CoreParameters{}, errors.Errorf("param %v out of range", key)
		}
		values[i] = v.Uint64()
	}
	return CoreParameters{
		PreVoteLength:    values[0],
		TotalVoteLength:  values[1],
		ExpirationLength: values[2],
		MinVoteE4:        values[3],
		MinVoteCoreE4:    values[4],
		MinCommitE4:      values[5],
	}, nil
}

// StoreCoreParameters validates cp and writes it to the params store.
func StoreCoreParameters(p *params.Params, cp CoreParameters) error {
	if err := cp.Validate(); err != nil {
		return err
	}
	values := [len(paramKeys)]uint64{
		cp.PreVoteLength,
		cp.TotalVoteLength,
		cp.ExpirationLength,
		cp.MinVoteE4,
		cp.MinVoteCoreE4,
		cp.MinCommitE4,
	}
	for i, key := range paramKeys {
		if err := p.Set(key, new(big.Int).SetUint64(values[i])); err != nil {
			return err
		}
	}
	return nil
}

// GetCoreParameters returns the current engine parameters.
func (g *Governance) GetCoreParameters() (CoreParameters, error) {
	return LoadCoreParameters(g.params)
}

// SetCoreParameters validates and stores cp.
func (g *Governance) SetCoreParameters(cp CoreParameters) error {
	return StoreCoreParameters(g.params, cp)
}

func fraction(supply *big.Int, e4 uint64) (*big.Int, error) {
	v, ok := tax.Fraction(supply, e4, tax.E4)
	if !ok {
		return nil, errors.Errorf("supply fraction overflow: %v * %d", supply, e4)
	}
	return v, nil
}

func proposalID(kind Kind, payload []byte, proposer tax.Address, now, count uint64, prev tax.Bytes32) (tax.Bytes32, error) {
	data, err := rlp.EncodeToBytes([]any{kind, payload, proposer, now, count, prev})
	if err != nil {
		return tax.Bytes32{}, errors.Wrap(err, "encode proposal id")
	}
	return tax.Keccak256(data), nil
}

// Propose creates a proposal and bonds the proposer's commitment as an approval vote.
func (g *Governance) Propose(proposer tax.Address, payload Payload, now uint64) (tax.Bytes32, error) {
	if payload == nil {
		return tax.Bytes32{}, ErrInvalidPayload
	}
	if err := payload.Validate(); err != nil {
		return tax.Bytes32{}, err
	}
	cp, err := g.GetCoreParameters()
	if err != nil {
		return tax.Bytes32{}, err
	}
	supply, err := g.bank.TotalSupply(g.token)
	if err != nil {
		return tax.Bytes32{}, err
	}
	bond, err := fraction(supply, cp.MinCommitE4)
	if err != nil {
		return tax.Bytes32{}, err
	}
	quorum, err := fraction(supply, cp.MinVoteCoreE4)
	if err != nil {
		return tax.Bytes32{}, err
	}
	minimum, err := fraction(supply, cp.MinVoteE4)
	if err != nil {
		return tax.Bytes32{}, err
	}

	encoded, err := encodePayload(payload)
	if err != nil {
		return tax.Bytes32{}, errors.Wrap(err, "encode payload")
	}
	count, err := g.registry.Count()
	if err != nil {
		return tax.Bytes32{}, err
	}
	prev, err := g.registry.Last()
	if err != nil {
		return tax.Bytes32{}, err
	}
	id, err := proposalID(payload.Kind(), encoded, proposer, now, count, prev)
	if err != nil {
		return tax.Bytes32{}, err
	}

	if err := g.locker.Commit(g.cap, proposer, bond); err != nil {
		return tax.Bytes32{}, err
	}
	main := now + cp.TotalVoteLength
	p := &Proposal{
		ID:                 id,
		Payload:            payload,
		Proposer:           proposer,
		CreatedAt:          now,
		PreVoteDeadline:    now + cp.PreVoteLength,
		MainVoteDeadline:   main,
		ExpirationDeadline: main + cp.ExpirationLength,
		ApprovalVoteSum:    new(big.Int).Set(bond),
		DenialVoteSum:      new(big.Int),
		QuorumThreshold:    quorum,
		MinimumVote:        minimum,
	}
	if err := g.registry.Insert(p); err != nil {
		return tax.Bytes32{}, err
	}
	if err := g.registry.SetDeposit(id, proposer, &VoteDeposit{Approval: bond, Denial: new(big.Int)}); err != nil {
		return tax.Bytes32{}, err
	}
	logger.Info("proposal created", "id", id, "kind", payload.Kind(), "proposer", proposer, "bond", bond, "quorum", quorum)
	return id, nil
}

func (g *Governance) ProposeCoreParameterUpdate(proposer tax.Address, p CoreParameters, now uint64) (tax.Bytes32, error) {
	return g.Propose(proposer, CoreParameterUpdate{Parameters: p}, now)
}

func (g *Governance) ProposeWhitelistRegister(proposer, asset, oracle tax.Address, now uint64) (tax.Bytes32, error) {
	return g.Propose(proposer, WhitelistRegister{Asset: asset, Oracle: oracle}, now)
}

func (g *Governance) ProposeWhitelistDelist(proposer, asset tax.Address, now uint64) (tax.Bytes32, error) {
	return g.Propose(proposer, WhitelistDelist{Asset: asset}, now)
}

func (g *Governance) ProposeIncentiveFundUpdate(proposer tax.Address, allocations []incentive.Allocation, now uint64) (tax.Bytes32, error) {
	return g.Propose(proposer, IncentiveFundUpdate{Allocations: allocations}, now)
}

func (g *Governance) mustGet(id tax.Bytes32) (*Proposal, error) {
	p, err := g.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrInvalidProposal
	}
	return p, nil
}

// Vote bonds amount of the voter's stake for or against the proposal.
func (g *Governance) Vote(voter tax.Address, id tax.Bytes32, approval bool, amount *big.Int, now uint64) error {
	p, err := g.mustGet(id)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	// past the pre-vote window only locked in proposals take votes
	if (now > p.PreVoteDeadline && !p.LockedIn) || now >= p.MainVoteDeadline {
		return ErrVotingClosed
	}
	if err := g.locker.Commit(g.cap, voter, amount); err != nil {
		return err
	}

	deposit, err := g.registry.Deposit(id, voter)
	if err != nil {
		return err
	}
	if approval {
		p.ApprovalVoteSum.Add(p.ApprovalVoteSum, amount)
		deposit.Approval.Add(deposit.Approval, amount)
	} else {
		p.DenialVoteSum.Add(p.DenialVoteSum, amount)
		deposit.Denial.Add(deposit.Denial, amount)
	}
	if err := g.registry.SetDeposit(id, voter, deposit); err != nil {
		return err
	}
	if err := g.registry.Update(p); err != nil {
		return err
	}
	logger.Debug("voted", "id", id, "voter", voter, "approval", approval, "amount", amount)
	return nil
}

// LockIn marks a proposal whose turnout reached the quorum. It is accepted at any time,
// and repeating it is a no-op.
func (g *Governance) LockIn(id tax.Bytes32, now uint64) error {
	p, err := g.mustGet(id)
	if err != nil {
		return err
	}
	if p.LockedIn {
		return nil
	}
	if p.Turnout().Cmp(p.QuorumThreshold) < 0 {
		return ErrInsufficientQuorum
	}
	p.LockedIn = true
	if err := g.registry.Update(p); err != nil {
		return err
	}
	logger.Info("proposal locked in", "id", id, "turnout", p.Turnout())
	return nil
}

// Apply executes the payload of a proposal of any kind.
func (g *Governance) Apply(id tax.Bytes32, now uint64) error {
	return g.apply(id, 0, now)
}

func (g *Governance) ApplyCoreParameterUpdate(id tax.Bytes32, now uint64) error {
	return g.apply(id, KindCoreParameterUpdate, now)
}

func (g *Governance) ApplyWhitelistRegister(id tax.Bytes32, now uint64) error {
	return g.apply(id, KindWhitelistRegister, now)
}

func (g *Governance) ApplyWhitelistDelist(id tax.Bytes32, now uint64) error {
	return g.apply(id, KindWhitelistDelist, now)
}

func (g *Governance) ApplyIncentiveFundUpdate(id tax.Bytes32, now uint64) error {
	return g.apply(id, KindIncentiveFundUpdate, now)
}

// apply checks the proposal and runs its effect. A zero kind accepts any kind.
func (g *Governance) apply(id tax.Bytes32, kind Kind, now uint64) error {
	p, err := g.registry.Get(id)
	if err != nil {
		return err
	}
	switch {
	case p == nil || (kind != 0 && p.Kind() != kind):
		return ErrInvalidProposalKind
	case now < p.MainVoteDeadline:
		return ErrStillVoting
	case now >= p.ExpirationDeadline:
		return ErrExpired
	case !p.LockedIn:
		return ErrNotLockedIn
	case p.Applied:
		return ErrAlreadyApplied
	}
	if err := g.turnout(p); err != nil {
		return err
	}
	if p.DenialVoteSum.Cmp(p.ApprovalVoteSum) >= 0 {
		return ErrDeniedByMajority
	}

	switch payload := p.Payload.(type) {
	case CoreParameterUpdate:
		err = g.SetCoreParameters(payload.Parameters)
	case WhitelistRegister:
		err = g.whitelist.Register(payload.Asset, payload.Oracle)
	case WhitelistDelist:
		err = g.whitelist.Delist(payload.Asset)
	case IncentiveFundUpdate:
		err = g.incentive.Replace(payload.Allocations)
	default:
		err = errors.Errorf("unsupported payload %T", payload)
	}
	if err != nil {
		return err
	}

	p.Applied = true
	if err := g.registry.Update(p); err != nil {
		return err
	}
	logger.Info("proposal applied", "id", id, "kind", p.Kind(), "approval", p.ApprovalVoteSum, "denial", p.DenialVoteSum)
	return nil
}

// Withdraw releases the whole deposit of account once voting has ended, whatever the outcome.
func (g *Governance) Withdraw(account tax.Address, id tax.Bytes32, now uint64) (*big.Int, error) {
	p, err := g.mustGet(id)
	if err != nil {
		return nil, err
	}
	deposit, err := g.registry.Deposit(id, account)
	if err != nil {
		return nil, err
	}
	total := deposit.Total()
	if total.Sign() == 0 {
		return nil, ErrNoDeposit
	}
	if now < p.MainVoteDeadline {
		return nil, ErrStillVoting
	}
	if err := g.locker.Release(g.cap, account, total); err != nil {
		return nil, err
	}
	if err := g.registry.SetDeposit(id, account, &VoteDeposit{Approval: new(big.Int), Denial: new(big.Int)}); err != nil {
		return nil, err
	}
	logger.Debug("vote withdrawn", "id", id, "account", account, "amount", total)
	return total, nil
}

//
// Views
//

// GetProposals lists proposals most recent first. A zero limit lists all remaining.
func (g *Governance) GetProposals(offset, limit uint64) ([]*Proposal, error) {
	return g.registry.List(offset, limit)
}

// GetProposal returns the proposal of id or ErrInvalidProposal.
func (g *Governance) GetProposal(id tax.Bytes32) (*Proposal, error) {
	return g.mustGet(id)
}

// GetProposalCount returns the number of proposals ever created.
func (g *Governance) GetProposalCount() (uint64, error) {
	return g.registry.Count()
}

// GetUserStatus returns the deposit of account on proposal id.
func (g *Governance) GetUserStatus(id tax.Bytes32, account tax.Address) (*VoteDeposit, error) {
	if _, err := g.mustGet(id); err != nil {
		return nil, err
	}
	return g.registry.Deposit(id, account)
}

// GetStatus returns the phase of proposal id at now.
func (g *Governance) GetStatus(id tax.Bytes32, now uint64) (Status, error) {
	p, err := g.mustGet(id)
	if err != nil {
		return 0, err
	}
	return StatusAt(p, now), nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/tax"
)

// Kind tags the payload of a proposal.
type Kind uint8

const (
	KindCoreParameterUpdate Kind = iota + 1
	KindWhitelistRegister
	KindWhitelistDelist
	KindIncentiveFundUpdate
)

var kindNames = map[Kind]string{
	KindCoreParameterUpdate: "core-parameter-update",
	KindWhitelistRegister:   "whitelist-register",
	KindWhitelistDelist:     "whitelist-delist",
	KindIncentiveFundUpdate: "incentive-fund-update",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown proposal kind %q", s)
}

// CoreParameters are the tunables of the governance engine.
// Fractions are E4 fixed point of the token supply.
type CoreParameters struct {
	PreVoteLength    uint64
	TotalVoteLength  uint64
	ExpirationLength uint64
	MinVoteE4        uint64
	MinVoteCoreE4    uint64
	MinCommitE4      uint64
}

// DefaultCoreParameters returns the parameters of a new deployment.
func DefaultCoreParameters() CoreParameters {
	return CoreParameters{
		PreVoteLength:    tax.InitialPreVoteLength.Uint64(),
		TotalVoteLength:  tax.InitialTotalVoteLength.Uint64(),
		ExpirationLength: tax.InitialExpirationLength.Uint64(),
		MinVoteE4:        tax.InitialMinVote.Uint64(),
		MinVoteCoreE4:    tax.InitialMinVoteCore.Uint64(),
		MinCommitE4:      tax.InitialMinCommit.Uint64(),
	}
}

func (p CoreParameters) Validate() error {
	switch {
	case p.PreVoteLength == 0 || p.TotalVoteLength == 0 || p.ExpirationLength == 0:
		return errors.WithMessage(ErrInvalidParameters, "lengths must be positive")
	case p.PreVoteLength > p.TotalVoteLength:
		return errors.WithMessage(ErrInvalidParameters, "pre-vote exceeds total vote length")
	case p.MinVoteE4 > tax.E4 || p.MinVoteCoreE4 > tax.E4 || p.MinCommitE4 > tax.E4:
		return errors.WithMessage(ErrInvalidParameters, "fraction exceeds 100%")
	}
	return nil
}

// Payload is the kind specific content of a proposal.
type Payload interface {
	Kind() Kind
	Validate() error
}

type CoreParameterUpdate struct {
	Parameters CoreParameters
}

func (CoreParameterUpdate) Kind() Kind { return KindCoreParameterUpdate }

func (u CoreParameterUpdate) Validate() error { return u.Parameters.Validate() }

type WhitelistRegister struct {
	Asset  tax.Address
	Oracle tax.Address
}

func (WhitelistRegister) Kind() Kind { return KindWhitelistRegister }

func (r WhitelistRegister) Validate() error {
	if r.Oracle.IsZero() {
		return errors.WithMessage(ErrInvalidPayload, "zero oracle address")
	}
	return nil
}

type WhitelistDelist struct {
	Asset tax.Address
}

func (WhitelistDelist) Kind() Kind { return KindWhitelistDelist }

func (WhitelistDelist) Validate() error { return nil }

type IncentiveFundUpdate struct {
	Allocations []incentive.Allocation
}

func (IncentiveFundUpdate) Kind() Kind { return KindIncentiveFundUpdate }

func (u IncentiveFundUpdate) Validate() error {
	if err := incentive.Validate(u.Allocations); err != nil {
		return errors.WithMessage(ErrInvalidPayload, err.Error())
	}
	return nil
}

// Proposal is a governance proposal and its tally.
type Proposal struct {
	ID                 tax.Bytes32
	Payload            Payload
	Proposer           tax.Address
	CreatedAt          uint64
	PreVoteDeadline    uint64
	MainVoteDeadline   uint64
	ExpirationDeadline uint64
	ApprovalVoteSum    *big.Int
	DenialVoteSum      *big.Int
	QuorumThreshold    *big.Int
	MinimumVote        *big.Int // frozen supply x minVote
	LockedIn           bool
	Applied            bool
}

func (p *Proposal) Kind() Kind {
	return p.Payload.Kind()
}

// Turnout returns the sum of all votes.
func (p *Proposal) Turnout() *big.Int {
	return new(big.Int).Add(p.ApprovalVoteSum, p.DenialVoteSum)
}

// VoteDeposit is the stake an account has bonded to a proposal.
type VoteDeposit struct {
	Approval *big.Int
	Denial   *big.Int
}

func (d *VoteDeposit) Total() *big.Int {
	return new(big.Int).Add(d.Approval, d.Denial)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/api/utils"
	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/tax"
)

// CoreParameters fractions are E4, 10000 is 100%.
type CoreParameters struct {
	PreVoteLength    uint64 `json:"preVoteLength"`
	TotalVoteLength  uint64 `json:"totalVoteLength"`
	ExpirationLength uint64 `json:"expirationLength"`
	MinVote          uint64 `json:"minVote"`
	MinVoteCore      uint64 `json:"minVoteCore"`
	MinCommit        uint64 `json:"minCommit"`
}

func convertCoreParameters(p governance.CoreParameters) *CoreParameters {
	return &CoreParameters{
		PreVoteLength:    p.PreVoteLength,
		TotalVoteLength:  p.TotalVoteLength,
		ExpirationLength: p.ExpirationLength,
		MinVote:          p.MinVoteE4,
		MinVoteCore:      p.MinVoteCoreE4,
		MinCommit:        p.MinCommitE4,
	}
}

func (p *CoreParameters) toCore() governance.CoreParameters {
	return governance.CoreParameters{
		PreVoteLength:    p.PreVoteLength,
		TotalVoteLength:  p.TotalVoteLength,
		ExpirationLength: p.ExpirationLength,
		MinVoteE4:        p.MinVote,
		MinVoteCoreE4:    p.MinVoteCore,
		MinCommitE4:      p.MinCommit,
	}
}

// Allocation fraction is E8, 100000000 is 100%.
type Allocation struct {
	Address  tax.Address `json:"address"`
	Fraction uint64      `json:"fraction"`
}

func convertAllocations(table []incentive.Allocation) []Allocation {
	out := make([]Allocation, 0, len(table))
	for _, a := range table {
		out = append(out, Allocation{a.Address, a.Fraction})
	}
	return out
}

type WhitelistEntry struct {
	Asset  tax.Address `json:"asset"`
	Oracle tax.Address `json:"oracle"`
}

func convertWhitelist(list []whitelist.Entry) []WhitelistEntry {
	out := make([]WhitelistEntry, 0, len(list))
	for _, e := range list {
		out = append(out, WhitelistEntry{e.Asset, e.Oracle})
	}
	return out
}

// Payload is a kind tagged proposal payload. Only the fields of the kind are set.
type Payload struct {
	Kind        string          `json:"kind"`
	Parameters  *CoreParameters `json:"parameters,omitempty"`
	Asset       *tax.Address    `json:"asset,omitempty"`
	Oracle      *tax.Address    `json:"oracle,omitempty"`
	Allocations []Allocation    `json:"allocations,omitempty"`
}

func convertPayload(p governance.Payload) Payload {
	out := Payload{Kind: p.Kind().String()}
	switch v := p.(type) {
	case governance.CoreParameterUpdate:
		out.Parameters = convertCoreParameters(v.Parameters)
	case governance.WhitelistRegister:
		out.Asset, out.Oracle = &v.Asset, &v.Oracle
	case governance.WhitelistDelist:
		out.Asset = &v.Asset
	case governance.IncentiveFundUpdate:
		out.Allocations = convertAllocations(v.Allocations)
	}
	return out
}

func (p *Payload) decode() (governance.Payload, error) {
	kind, err := governance.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case governance.KindCoreParameterUpdate:
		if p.Parameters == nil {
			return nil, errors.New("parameters: missing")
		}
		return governance.CoreParameterUpdate{Parameters: p.Parameters.toCore()}, nil
	case governance.KindWhitelistRegister:
		if p.Asset == nil || p.Oracle == nil {
			return nil, errors.New("asset and oracle: missing")
		}
		return governance.WhitelistRegister{Asset: *p.Asset, Oracle: *p.Oracle}, nil
	case governance.KindWhitelistDelist:
		if p.Asset == nil {
			return nil, errors.New("asset: missing")
		}
		return governance.WhitelistDelist{Asset: *p.Asset}, nil
	default:
		table := make([]incentive.Allocation, 0, len(p.Allocations))
		for _, a := range p.Allocations {
			table = append(table, incentive.Allocation{Address: a.Address, Fraction: a.Fraction})
		}
		return governance.IncentiveFundUpdate{Allocations: table}, nil
	}
}

type ProposeRequest struct {
	From tax.Address `json:"from"`
	Payload
}

type ProposeResult struct {
	ID tax.Bytes32 `json:"id"`
}

type Proposal struct {
	ID                 tax.Bytes32           `json:"id"`
	Payload            Payload               `json:"payload"`
	Proposer           tax.Address           `json:"proposer"`
	CreatedAt          uint64                `json:"createdAt"`
	PreVoteDeadline    uint64                `json:"preVoteDeadline"`
	MainVoteDeadline   uint64                `json:"mainVoteDeadline"`
	ExpirationDeadline uint64                `json:"expirationDeadline"`
	ApprovalVoteSum    *math.HexOrDecimal256 `json:"approvalVoteSum"`
	DenialVoteSum      *math.HexOrDecimal256 `json:"denialVoteSum"`
	QuorumThreshold    *math.HexOrDecimal256 `json:"quorumThreshold"`
	MinimumVote        *math.HexOrDecimal256 `json:"minimumVote"`
	LockedIn           bool                  `json:"lockedIn"`
	Applied            bool                  `json:"applied"`
	Status             governance.Status     `json:"status"`
}

func convertProposal(p *governance.Proposal, now uint64) *Proposal {
	return &Proposal{
		ID:                 p.ID,
		Payload:            convertPayload(p.Payload),
		Proposer:           p.Proposer,
		CreatedAt:          p.CreatedAt,
		PreVoteDeadline:    p.PreVoteDeadline,
		MainVoteDeadline:   p.MainVoteDeadline,
		ExpirationDeadline: p.ExpirationDeadline,
		ApprovalVoteSum:    utils.BigToHex(p.ApprovalVoteSum),
		DenialVoteSum:      utils.BigToHex(p.DenialVoteSum),
		QuorumThreshold:    utils.BigToHex(p.QuorumThreshold),
		MinimumVote:        utils.BigToHex(p.MinimumVote),
		LockedIn:           p.LockedIn,
		Applied:            p.Applied,
		Status:             governance.StatusAt(p, now),
	}
}

type StatusResult struct {
	Status governance.Status `json:"status"`
}

type Deposit struct {
	Approval *math.HexOrDecimal256 `json:"approval"`
	Denial   *math.HexOrDecimal256 `json:"denial"`
}

type VoteRequest struct {
	From     tax.Address           `json:"from"`
	Approval bool                  `json:"approval"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
}

// AccountRequest is the body of lockin, apply and withdraw. Lockin and apply ignore from.
type AccountRequest struct {
	From tax.Address `json:"from"`
}

type WithdrawResult struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

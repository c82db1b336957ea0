// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/tax"
)

var (
	slotProposals = tax.BytesToBytes32([]byte("proposals"))
	slotIndex     = tax.BytesToBytes32([]byte("proposal-index"))
	slotCount     = tax.BytesToBytes32([]byte("proposal-count"))
	slotDeposits  = tax.BytesToBytes32([]byte("vote-deposits"))
)

type depositKey = solidity.PairKey[tax.Bytes32, tax.Address]

// body is the stored form of a proposal.
type body struct {
	Kind               Kind
	Payload            []byte
	Proposer           tax.Address
	CreatedAt          uint64
	PreVoteDeadline    uint64
	MainVoteDeadline   uint64
	ExpirationDeadline uint64
	ApprovalVoteSum    *big.Int
	DenialVoteSum      *big.Int
	QuorumThreshold    *big.Int
	MinimumVote        *big.Int
	LockedIn           bool
	Applied            bool
}

func encodePayload(p Payload) ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

func decodePayload(kind Kind, data []byte) (Payload, error) {
	switch kind {
	case KindCoreParameterUpdate:
		return decodeAs[CoreParameterUpdate](data)
	case KindWhitelistRegister:
		return decodeAs[WhitelistRegister](data)
	case KindWhitelistDelist:
		return decodeAs[WhitelistDelist](data)
	case KindIncentiveFundUpdate:
		return decodeAs[IncentiveFundUpdate](data)
	}
	return nil, errors.Errorf("unknown proposal kind %d", kind)
}

func decodeAs[T Payload](data []byte) (Payload, error) {
	var v T
	if err := rlp.DecodeBytes(data, &v); err != nil {
		return nil, errors.Wrapf(err, "decode %v payload", v.Kind())
	}
	return v, nil
}

// registry stores proposals, their insertion order and the vote deposits.
type registry struct {
	proposals *solidity.Mapping[tax.Bytes32, *body]
	index     *solidity.Mapping[solidity.Uint64Key, *tax.Bytes32]
	count     *solidity.Raw[uint64]
	deposits  *solidity.Mapping[depositKey, *VoteDeposit]
}

func newRegistry(sctx *solidity.Context) *registry {
	return &registry{
		proposals: solidity.NewMapping[tax.Bytes32, *body](sctx, slotProposals),
		index:     solidity.NewMapping[solidity.Uint64Key, *tax.Bytes32](sctx, slotIndex),
		count:     solidity.NewRaw[uint64](sctx, slotCount),
		deposits:  solidity.NewMapping[depositKey, *VoteDeposit](sctx, slotDeposits),
	}
}

// Get returns the proposal of id, nil if it does not exist.
func (r *registry) Get(id tax.Bytes32) (*Proposal, error) {
	b, err := r.proposals.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "get proposal")
	}
	if b == nil {
		return nil, nil
	}
	payload, err := decodePayload(b.Kind, b.Payload)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		ID:                 id,
		Payload:            payload,
		Proposer:           b.Proposer,
		CreatedAt:          b.CreatedAt,
		PreVoteDeadline:    b.PreVoteDeadline,
		MainVoteDeadline:   b.MainVoteDeadline,
		ExpirationDeadline: b.ExpirationDeadline,
		ApprovalVoteSum:    b.ApprovalVoteSum,
		DenialVoteSum:      b.DenialVoteSum,
		QuorumThreshold:    b.QuorumThreshold,
		MinimumVote:        b.MinimumVote,
		LockedIn:           b.LockedIn,
		Applied:            b.Applied,
	}, nil
}

func (r *registry) set(p *Proposal) error {
	payload, err := encodePayload(p.Payload)
	if err != nil {
		return errors.Wrap(err, "encode payload")
	}
	b := &body{
		Kind:               p.Kind(),
		Payload:            payload,
		Proposer:           p.Proposer,
		CreatedAt:          p.CreatedAt,
		PreVoteDeadline:    p.PreVoteDeadline,
		MainVoteDeadline:   p.MainVoteDeadline,
		ExpirationDeadline: p.ExpirationDeadline,
		ApprovalVoteSum:    p.ApprovalVoteSum,
		DenialVoteSum:      p.DenialVoteSum,
		QuorumThreshold:    p.QuorumThreshold,
		MinimumVote:        p.MinimumVote,
		LockedIn:           p.LockedIn,
		Applied:            p.Applied,
	}
	if err := r.proposals.Set(p.ID, b); err != nil {
		return errors.Wrap(err, "set proposal")
	}
	return nil
}

// Count returns the number of proposals ever created.
func (r *registry) Count() (uint64, error) {
	n, err := r.count.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get proposal count")
	}
	return n, nil
}

// Last returns the id of the latest proposal, zero if none.
func (r *registry) Last() (tax.Bytes32, error) {
	n, err := r.Count()
	if err != nil || n == 0 {
		return tax.Bytes32{}, err
	}
	id, err := r.index.Get(solidity.Uint64Key(n - 1))
	if err != nil {
		return tax.Bytes32{}, errors.Wrap(err, "get proposal index")
	}
	return *id, nil
}

// Insert stores a new proposal and appends it to the index.
func (r *registry) Insert(p *Proposal) error {
	existing, err := r.proposals.Get(p.ID)
	if err != nil {
		return errors.Wrap(err, "get proposal")
	}
	if existing != nil {
		return ErrDuplicateProposal
	}
	n, err := r.Count()
	if err != nil {
		return err
	}
	if err := r.index.Set(solidity.Uint64Key(n), &p.ID); err != nil {
		return errors.Wrap(err, "set proposal index")
	}
	if err := r.count.Set(n + 1); err != nil {
		return errors.Wrap(err, "set proposal count")
	}
	return r.set(p)
}

// Update stores a mutated proposal.
func (r *registry) Update(p *Proposal) error {
	return r.set(p)
}

// List returns proposals most recent first, skipping offset. A zero limit lists all remaining.
func (r *registry) List(offset, limit uint64) ([]*Proposal, error) {
	n, err := r.Count()
	if err != nil {
		return nil, err
	}
	if offset >= n {
		return []*Proposal{}, nil
	}
	remaining := n - offset
	if limit == 0 || limit > remaining {
		limit = remaining
	}
	list := make([]*Proposal, 0, limit)
	for i := range limit {
		id, err := r.index.Get(solidity.Uint64Key(n - 1 - offset - i))
		if err != nil {
			return nil, errors.Wrap(err, "get proposal index")
		}
		p, err := r.Get(*id)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

// Deposit returns the deposit of account on proposal id, zero if none.
func (r *registry) Deposit(id tax.Bytes32, account tax.Address) (*VoteDeposit, error) {
	d, err := r.deposits.Get(solidity.NewPairKey(id, account))
	if err != nil {
		return nil, errors.Wrap(err, "get vote deposit")
	}
	if d == nil {
		return &VoteDeposit{Approval: new(big.Int), Denial: new(big.Int)}, nil
	}
	return d, nil
}

func (r *registry) SetDeposit(id tax.Bytes32, account tax.Address, d *VoteDeposit) error {
	key := solidity.NewPairKey(id, account)
	if d.Total().Sign() == 0 {
		r.deposits.Delete(key)
		return nil
	}
	if err := r.deposits.Set(key, d); err != nil {
		return errors.Wrap(err, "set vote deposit")
	}
	return nil
}

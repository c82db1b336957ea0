// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import "github.com/pkg/errors"

// Status is the lifecycle phase of a proposal at some time.
type Status uint8

const (
	StatusPreVote Status = iota
	StatusMainVote
	StatusApplicable
	StatusApplied
	StatusExpired
	StatusPendingLockIn
)

func (s Status) String() string {
	switch s {
	case StatusPreVote:
		return "pre-vote"
	case StatusMainVote:
		return "main-vote"
	case StatusApplicable:
		return "applicable"
	case StatusApplied:
		return "applied"
	case StatusExpired:
		return "expired"
	case StatusPendingLockIn:
		return "pending-lockin"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for v := StatusPreVote; v <= StatusPendingLockIn; v++ {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return errors.Errorf("unknown status %q", text)
}

// StatusAt derives the phase of p at now. Once voting ended, a proposal that was never
// locked in is pending lock-in while its turnout reaches the quorum, and expired otherwise.
func StatusAt(p *Proposal, now uint64) Status {
	switch {
	case p.Applied:
		return StatusApplied
	case now < p.PreVoteDeadline:
		return StatusPreVote
	case now < p.MainVoteDeadline:
		return StatusMainVote
	case now >= p.ExpirationDeadline:
		return StatusExpired
	case p.LockedIn:
		return StatusApplicable
	case p.Turnout().Cmp(p.QuorumThreshold) >= 0:
		return StatusPendingLockIn
	default:
		return StatusExpired
	}
}

// TurnoutPolicy decides at apply time whether the frozen minimum vote is met.
type TurnoutPolicy func(p *Proposal) error

// IgnoreMinimumVote accepts every proposal.
func IgnoreMinimumVote(*Proposal) error {
	return nil
}

// RequireMinimumApproval rejects proposals approved by less than the minimum vote.
func RequireMinimumApproval(p *Proposal) error {
	if p.ApprovalVoteSum.Cmp(p.MinimumVote) < 0 {
		return ErrInsufficientTurnout
	}
	return nil
}

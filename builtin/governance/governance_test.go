// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/builtin/params"
	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/builtin/staking/votelock"
	"github.com/taxtoken/core/builtin/whitelist"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

const (
	day = 24 * 3600
	t0  = uint64(1_000_000)
)

var (
	token  = tax.BytesToAddress([]byte("tax"))
	alice  = tax.BytesToAddress([]byte("alice"))
	bob    = tax.BytesToAddress([]byte("bob"))
	carol  = tax.BytesToAddress([]byte("carol"))
	usdc   = tax.BytesToAddress([]byte("usdc"))
	oracle = tax.BytesToAddress([]byte("oracle"))
)

type govTest struct {
	*Governance
	t         *testing.T
	staking   *staking.Staking
	whitelist *whitelist.Whitelist
	incentive *incentive.Incentive
}

// newTest deploys a token with a supply of 20000, split between alice and bob who stake all of it.
func newTest(t *testing.T, turnout TurnoutPolicy) *govTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	b := bank.New(tax.BytesToAddress([]byte("bank")), st)
	stk := staking.New(tax.BytesToAddress([]byte("staking")), st, b, token, tax.MaxTermStep)
	require.NoError(t, stk.RegisterPool(tax.NativeAsset, 0, 3600))

	for _, acc := range []tax.Address{alice, bob} {
		require.NoError(t, b.Mint(token, acc, big.NewInt(10000)))
		require.NoError(t, b.Approve(token, acc, stk.Address(), big.NewInt(10000)))
		require.NoError(t, stk.Stake(acc, tax.NativeAsset, big.NewInt(10000), 0))
	}

	wl := whitelist.New(tax.BytesToAddress([]byte("whitelist")), st)
	inc := incentive.New(tax.BytesToAddress([]byte("incentive")), st)
	g, err := New(
		tax.BytesToAddress([]byte("governance")),
		st,
		params.New(tax.BytesToAddress([]byte("params")), st),
		b,
		token,
		stk.VoteLock(),
		wl,
		inc,
		turnout,
	)
	require.NoError(t, err)
	require.NoError(t, g.SetCoreParameters(DefaultCoreParameters()))

	return &govTest{Governance: g, t: t, staking: stk, whitelist: wl, incentive: inc}
}

func (gt *govTest) propose(payload Payload, now uint64) tax.Bytes32 {
	id, err := gt.Propose(alice, payload, now)
	require.NoError(gt.t, err)
	return id
}

func (gt *govTest) vote(voter tax.Address, id tax.Bytes32, approval bool, amount int64, now uint64) {
	require.NoError(gt.t, gt.Vote(voter, id, approval, big.NewInt(amount), now))
}

func (gt *govTest) locked(account tax.Address) int64 {
	info, err := gt.staking.GetAccountInfo(tax.NativeAsset, account)
	require.NoError(gt.t, err)
	return info.VoteLocked.Int64()
}

func TestGovernanceScenario(t *testing.T) {
	gt := newTest(t, nil)

	id := gt.propose(WhitelistRegister{Asset: usdc, Oracle: oracle}, t0)
	p, err := gt.GetProposal(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ApprovalVoteSum.Int64(), "bond is minCommit of the supply")
	assert.Equal(t, int64(1000), p.QuorumThreshold.Int64())
	assert.Equal(t, int64(1000), p.MinimumVote.Int64())
	assert.Equal(t, t0+7*day, p.PreVoteDeadline)
	assert.Equal(t, t0+14*day, p.MainVoteDeadline)
	assert.Equal(t, t0+15*day, p.ExpirationDeadline)
	assert.Equal(t, int64(2), gt.locked(alice))

	gt.vote(alice, id, true, 500, t0+1)
	err = gt.LockIn(id, t0+2)
	assert.ErrorIs(t, err, ErrInsufficientQuorum)
	assert.EqualError(t, err, "insufficient amount for lockin")

	gt.vote(bob, id, false, 400, t0+3)
	assert.ErrorIs(t, gt.LockIn(id, t0+4), ErrInsufficientQuorum)
	gt.vote(alice, id, true, 98, t0+5)
	require.NoError(t, gt.LockIn(id, t0+6))
	require.NoError(t, gt.LockIn(id, t0+7), "repeat lock-in is a no-op")

	// locked in proposals keep taking votes until the main deadline
	gt.vote(bob, id, true, 1, t0+8*day)
	assert.ErrorIs(t, gt.Vote(bob, id, true, big.NewInt(1), t0+14*day), ErrVotingClosed)

	err = gt.ApplyWhitelistRegister(id, t0+14*day-1)
	assert.ErrorIs(t, err, ErrStillVoting)
	assert.EqualError(t, err, "the proposal is still under voting period")

	err = gt.ApplyWhitelistRegister(id, t0+15*day)
	assert.ErrorIs(t, err, ErrExpired)
	assert.EqualError(t, err, "the applicable period of the proposal has expired")

	err = gt.ApplyWhitelistDelist(id, t0+14*day)
	assert.ErrorIs(t, err, ErrInvalidProposalKind)
	assert.EqualError(t, err, "the propose ID is invalid")

	require.NoError(t, gt.ApplyWhitelistRegister(id, t0+14*day))
	assert.ErrorIs(t, gt.Apply(id, t0+14*day), ErrAlreadyApplied)

	registered, err := gt.whitelist.OracleOf(usdc)
	require.NoError(t, err)
	assert.Equal(t, oracle, *registered)

	status, err := gt.GetStatus(id, t0+14*day)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, status)
}

func TestDeniedByMajority(t *testing.T) {
	gt := newTest(t, nil)

	id := gt.propose(WhitelistDelist{Asset: usdc}, t0)
	gt.vote(alice, id, true, 498, t0)
	gt.vote(bob, id, false, 500, t0)
	require.NoError(t, gt.LockIn(id, t0))

	// approval 500 against denial 500
	err := gt.ApplyWhitelistDelist(id, t0+14*day)
	assert.ErrorIs(t, err, ErrDeniedByMajority)
	assert.EqualError(t, err, "the proposal is denied by majority of vote")
}

func TestApplyRequiresLockIn(t *testing.T) {
	gt := newTest(t, nil)

	id := gt.propose(WhitelistRegister{Asset: usdc, Oracle: oracle}, t0)
	gt.vote(alice, id, true, 2000, t0)

	assert.ErrorIs(t, gt.Apply(id, t0+14*day), ErrNotLockedIn)
	// the pre-vote window closed without a lock-in
	assert.ErrorIs(t, gt.Vote(bob, id, true, big.NewInt(1), t0+7*day+1), ErrVotingClosed)
	require.NoError(t, gt.Vote(bob, id, true, big.NewInt(1), t0+7*day))

	status, err := gt.GetStatus(id, t0+14*day)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingLockIn, status)

	// quorum alone gates the lock-in, also after the main deadline
	require.NoError(t, gt.LockIn(id, t0+14*day))
	status, err = gt.GetStatus(id, t0+14*day)
	require.NoError(t, err)
	assert.Equal(t, StatusApplicable, status)
	require.NoError(t, gt.Apply(id, t0+14*day))
}

func TestLockInWithoutQuorum(t *testing.T) {
	gt := newTest(t, nil)

	id := gt.propose(WhitelistDelist{Asset: usdc}, t0)
	gt.vote(bob, id, false, 997, t0)

	for _, now := range []uint64{t0, t0 + 14*day, t0 + 15*day} {
		assert.ErrorIs(t, gt.LockIn(id, now), ErrInsufficientQuorum)
	}
	status, err := gt.GetStatus(id, t0+14*day)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, status)
	assert.ErrorIs(t, gt.Apply(id, t0+14*day), ErrNotLockedIn)
}

func TestVoteValidation(t *testing.T) {
	gt := newTest(t, nil)
	id := gt.propose(WhitelistDelist{Asset: usdc}, t0)

	assert.ErrorIs(t, gt.Vote(bob, tax.Bytes32{1}, true, big.NewInt(1), t0), ErrInvalidProposal)
	assert.ErrorIs(t, gt.Vote(bob, id, true, big.NewInt(0), t0), ErrZeroAmount)
	assert.ErrorIs(t, gt.Vote(carol, id, true, big.NewInt(1), t0), votelock.ErrInsufficientWithdrawable)
	assert.ErrorIs(t, gt.Vote(bob, id, true, big.NewInt(10001), t0), votelock.ErrInsufficientWithdrawable)

	_, err := gt.Propose(carol, WhitelistDelist{Asset: usdc}, t0)
	assert.ErrorIs(t, err, votelock.ErrInsufficientWithdrawable)
	_, err = gt.Propose(alice, WhitelistRegister{Asset: usdc}, t0)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = gt.Propose(alice, IncentiveFundUpdate{Allocations: []incentive.Allocation{{Address: bob, Fraction: 2e8}}}, t0)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = gt.Propose(alice, CoreParameterUpdate{Parameters: CoreParameters{PreVoteLength: 2, TotalVoteLength: 1, ExpirationLength: 1}}, t0)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestWithdrawRoundTrip(t *testing.T) {
	gt := newTest(t, nil)
	id := gt.propose(WhitelistDelist{Asset: usdc}, t0)
	gt.vote(bob, id, false, 300, t0)
	gt.vote(bob, id, true, 200, t0)

	deposit, err := gt.GetUserStatus(id, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(200), deposit.Approval.Int64())
	assert.Equal(t, int64(300), deposit.Denial.Int64())
	assert.Equal(t, int64(500), gt.locked(bob))

	_, err = gt.Withdraw(bob, id, t0+14*day-1)
	assert.ErrorIs(t, err, ErrStillVoting)

	_, err = gt.Withdraw(carol, id, t0+14*day)
	assert.ErrorIs(t, err, ErrNoDeposit)
	assert.EqualError(t, err, "no deposit on the proposeId")

	// the proposal never got locked in, deposits come back anyway
	amount, err := gt.Withdraw(bob, id, t0+14*day)
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount.Int64())
	assert.Equal(t, int64(0), gt.locked(bob))

	_, err = gt.Withdraw(bob, id, t0+14*day)
	assert.ErrorIs(t, err, ErrNoDeposit)

	amount, err = gt.Withdraw(alice, id, t0+20*day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), amount.Int64())
	assert.Equal(t, int64(0), gt.locked(alice))
}

func TestCoreParameterUpdate(t *testing.T) {
	gt := newTest(t, nil)

	next := CoreParameters{
		PreVoteLength:    day,
		TotalVoteLength:  2 * day,
		ExpirationLength: day,
		MinVoteE4:        1000,
		MinVoteCoreE4:    2000,
		MinCommitE4:      10,
	}
	id, err := gt.ProposeCoreParameterUpdate(alice, next, t0)
	require.NoError(t, err)
	gt.vote(bob, id, true, 1000, t0)
	require.NoError(t, gt.LockIn(id, t0))
	require.NoError(t, gt.ApplyCoreParameterUpdate(id, t0+14*day))

	cp, err := gt.GetCoreParameters()
	require.NoError(t, err)
	assert.Equal(t, next, cp)

	// new proposals use the new parameters
	id, err = gt.ProposeWhitelistDelist(alice, usdc, t0+15*day)
	require.NoError(t, err)
	p, err := gt.GetProposal(id)
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.ApprovalVoteSum.Int64())
	assert.Equal(t, int64(4000), p.QuorumThreshold.Int64())
	assert.Equal(t, t0+17*day, p.MainVoteDeadline)
}

func TestCoreParametersValidate(t *testing.T) {
	valid := DefaultCoreParameters()
	tests := []struct {
		name    string
		modify  func(*CoreParameters)
		wantErr bool
	}{
		{"default", func(*CoreParameters) {}, false},
		{"minimum vote disabled", func(p *CoreParameters) { p.MinVoteE4 = 0 }, false},
		{"commit above quorum", func(p *CoreParameters) { p.MinCommitE4 = 600 }, false},
		{"zero length", func(p *CoreParameters) { p.ExpirationLength = 0 }, true},
		{"pre-vote too long", func(p *CoreParameters) { p.PreVoteLength = p.TotalVoteLength + 1 }, true},
		{"fraction above 100%", func(p *CoreParameters) { p.MinVoteCoreE4 = 10001 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			if tt.wantErr {
				assert.ErrorIs(t, p.Validate(), ErrInvalidParameters)
			} else {
				assert.NoError(t, p.Validate())
			}
		})
	}
}

func TestIncentiveFundUpdate(t *testing.T) {
	gt := newTest(t, nil)

	table := []incentive.Allocation{{Address: alice, Fraction: 6e7}, {Address: bob, Fraction: 4e7}}
	id, err := gt.ProposeIncentiveFundUpdate(alice, table, t0)
	require.NoError(t, err)
	gt.vote(bob, id, true, 1000, t0)
	require.NoError(t, gt.LockIn(id, t0))
	require.NoError(t, gt.Apply(id, t0+14*day))

	got, err := gt.incentive.Allocations()
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestTurnoutPolicy(t *testing.T) {
	gt := newTest(t, RequireMinimumApproval)

	id := gt.propose(WhitelistDelist{Asset: usdc}, t0)
	gt.vote(bob, id, false, 998, t0)
	require.NoError(t, gt.LockIn(id, t0))
	gt.vote(alice, id, true, 997, t0+day)

	// approval 999 is short of the frozen minimum vote of 1000
	assert.ErrorIs(t, gt.Apply(id, t0+14*day), ErrInsufficientTurnout)
}

func TestCapabilityIsUnique(t *testing.T) {
	gt := newTest(t, nil)
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	_, err = New(tax.Address{1}, st, params.New(tax.Address{2}, st), nil, token, gt.staking.VoteLock(), nil, nil, nil)
	assert.ErrorIs(t, err, votelock.ErrCapabilityIssued)
}

func TestGetProposals(t *testing.T) {
	gt := newTest(t, nil)

	var ids []tax.Bytes32
	for i := range 5 {
		ids = append(ids, gt.propose(WhitelistDelist{Asset: usdc}, t0+uint64(i)))
	}
	// same payload and time still yields a fresh id
	ids = append(ids, gt.propose(WhitelistDelist{Asset: usdc}, t0+4))
	assert.NotEqual(t, ids[4], ids[5])

	count, err := gt.GetProposalCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), count)

	idsOf := func(list []*Proposal) []tax.Bytes32 {
		out := make([]tax.Bytes32, 0, len(list))
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		offset, limit uint64
		want          []tax.Bytes32
	}{
		{0, 0, []tax.Bytes32{ids[5], ids[4], ids[3], ids[2], ids[1], ids[0]}},
		{0, 2, []tax.Bytes32{ids[5], ids[4]}},
		{2, 2, []tax.Bytes32{ids[3], ids[2]}},
		{4, 0, []tax.Bytes32{ids[1], ids[0]}},
		{5, 10, []tax.Bytes32{ids[0]}},
		{6, 0, []tax.Bytes32{}},
	}
	for _, tt := range tests {
		list, err := gt.GetProposals(tt.offset, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, idsOf(list), "offset %d limit %d", tt.offset, tt.limit)
	}
}

func TestStatusAt(t *testing.T) {
	p := &Proposal{
		PreVoteDeadline:    10,
		MainVoteDeadline:   20,
		ExpirationDeadline: 30,
		ApprovalVoteSum:    big.NewInt(5),
		DenialVoteSum:      big.NewInt(4),
		QuorumThreshold:    big.NewInt(10),
	}

	assert.Equal(t, StatusPreVote, StatusAt(p, 9))
	assert.Equal(t, StatusMainVote, StatusAt(p, 10))
	assert.Equal(t, StatusExpired, StatusAt(p, 20), "never reached the quorum")
	p.DenialVoteSum.SetInt64(5)
	assert.Equal(t, StatusPendingLockIn, StatusAt(p, 20))
	p.LockedIn = true
	assert.Equal(t, StatusApplicable, StatusAt(p, 20))
	assert.Equal(t, StatusExpired, StatusAt(p, 30))
	p.Applied = true
	assert.Equal(t, StatusApplied, StatusAt(p, 30))
	assert.Equal(t, "applicable", StatusApplicable.String())
	assert.Equal(t, "pending-lockin", StatusPendingLockIn.String())

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("main-vote")))
	assert.Equal(t, StatusMainVote, s)
	assert.Error(t, s.UnmarshalText([]byte("open")))
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindCoreParameterUpdate, KindWhitelistRegister, KindWhitelistDelist, KindIncentiveFundUpdate} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("bogus")
	assert.Error(t, err)
}

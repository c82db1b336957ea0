// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votelock

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var stakingAddr = tax.BytesToAddress([]byte("staking"))

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(stakingAddr, state.New(db)))
}

func TestCapability(t *testing.T) {
	s := newService(t)
	acc := tax.Address{1}
	require.NoError(t, s.Deposit(acc, big.NewInt(10)))

	assert.ErrorIs(t, s.Commit(nil, acc, big.NewInt(1)), ErrUnauthorized)
	assert.ErrorIs(t, s.Commit(&Capability{}, acc, big.NewInt(1)), ErrUnauthorized)

	c, err := s.IssueCapability()
	require.NoError(t, err)
	_, err = s.IssueCapability()
	assert.ErrorIs(t, err, ErrCapabilityIssued)

	assert.NoError(t, s.Commit(c, acc, big.NewInt(1)))
	assert.ErrorIs(t, s.Release(&Capability{}, acc, big.NewInt(1)), ErrUnauthorized)
	assert.NoError(t, s.Release(c, acc, big.NewInt(1)))
}

func TestLockBound(t *testing.T) {
	s := newService(t)
	c, err := s.IssueCapability()
	require.NoError(t, err)
	acc := tax.Address{1}

	require.NoError(t, s.Deposit(acc, big.NewInt(100)))
	assert.NoError(t, s.Commit(c, acc, big.NewInt(60)))
	assert.ErrorIs(t, s.Commit(c, acc, big.NewInt(41)), ErrInsufficientWithdrawable)
	assert.ErrorIs(t, s.Withdraw(acc, big.NewInt(41)), ErrInsufficientWithdrawable)
	assert.NoError(t, s.Withdraw(acc, big.NewInt(40)))

	st, err := s.Get(acc)
	require.NoError(t, err)
	assert.Equal(t, int64(60), st.TotalDeposited.Int64())
	assert.Equal(t, int64(60), st.VoteLocked.Int64())
	assert.Equal(t, int64(0), st.Withdrawable().Int64())

	assert.ErrorIs(t, s.Release(c, acc, big.NewInt(61)), ErrUnderflow)
	assert.NoError(t, s.Release(c, acc, big.NewInt(60)))
	assert.NoError(t, s.Withdraw(acc, big.NewInt(60)))

	st, err = s.Get(acc)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.TotalDeposited.Int64())
	assert.Equal(t, int64(0), st.VoteLocked.Int64())
}

func TestCapabilityOncePerState(t *testing.T) {
	s := newService(t)
	c, err := s.IssueCapability()
	require.NoError(t, err)

	acc := tax.Address{1}
	require.NoError(t, s.Deposit(acc, big.NewInt(100)))

	other := New(s.sctx)
	_, err = other.IssueCapability()
	assert.ErrorIs(t, err, ErrCapabilityIssued)
	other = New(solidity.NewContext(stakingAddr, s.sctx.State()))
	_, err = other.IssueCapability()
	assert.ErrorIs(t, err, ErrCapabilityIssued)

	assert.ErrorIs(t, other.Commit(c, acc, big.NewInt(100)), ErrUnauthorized)
	assert.ErrorIs(t, other.Commit(&Capability{}, acc, big.NewInt(100)), ErrUnauthorized)

	st, err := s.Get(acc)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.VoteLocked.Int64())
	assert.NoError(t, s.Commit(c, acc, big.NewInt(100)))
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

const interval = 100

var (
	token    = tax.BytesToAddress([]byte("tax"))
	usdc     = tax.BytesToAddress([]byte("usdc"))
	funder   = tax.BytesToAddress([]byte("funder"))
	stakeAcc = tax.BytesToAddress([]byte("staking"))
)

type stakingTest struct {
	*Staking
	t     *testing.T
	state *state.State
	bank  *bank.Bank
	now   uint64
}

func newTest(t *testing.T, maxStep uint64) *stakingTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	b := bank.New(tax.BytesToAddress([]byte("bank")), st)
	s := New(stakeAcc, st, b, token, maxStep)

	require.NoError(t, s.RegisterPool(tax.NativeAsset, 0, interval))
	require.NoError(t, s.RegisterPool(usdc, 0, interval))

	require.NoError(t, b.Mint(tax.NativeAsset, funder, big.NewInt(1e9)))
	require.NoError(t, b.Mint(usdc, funder, big.NewInt(1e9)))
	require.NoError(t, b.Approve(usdc, funder, stakeAcc, big.NewInt(1e9)))

	return &stakingTest{Staking: s, t: t, state: st, bank: b}
}

// Fund mints staking tokens to account and approves the staking contract.
func (ts *stakingTest) Fund(account tax.Address, amount int64) *stakingTest {
	require.NoError(ts.t, ts.bank.Mint(token, account, big.NewInt(amount)))
	require.NoError(ts.t, ts.bank.Approve(token, account, stakeAcc, big.NewInt(amount)))
	return ts
}

func (ts *stakingTest) At(now uint64) *stakingTest {
	ts.now = now
	return ts
}

func (ts *stakingTest) Stake(account, asset tax.Address, amount int64) *stakingTest {
	require.NoError(ts.t, ts.Staking.Stake(account, asset, big.NewInt(amount), ts.now), "stake %d", amount)
	return ts
}

func (ts *stakingTest) Withdraw(account tax.Address, amount int64) *stakingTest {
	require.NoError(ts.t, ts.Staking.Withdraw(account, big.NewInt(amount), ts.now), "withdraw %d", amount)
	return ts
}

func (ts *stakingTest) Reward(asset tax.Address, amount int64) *stakingTest {
	require.NoError(ts.t, ts.DepositReward(funder, asset, big.NewInt(amount), ts.now))
	return ts
}

func (ts *stakingTest) AssertReceive(account, asset tax.Address, expected int64) *stakingTest {
	reward, err := ts.ReceiveReward(account, asset, ts.now)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, reward.Int64(), "reward of %v at %d", account, ts.now)
	return ts
}

func (ts *stakingTest) AssertBalance(asset, account tax.Address, expected int64) *stakingTest {
	balance, err := ts.bank.BalanceOf(asset, account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, balance.Int64(), "balance of %v", account)
	return ts
}

func (ts *stakingTest) AssertGlobal(account tax.Address, deposited, locked int64) *stakingTest {
	info, err := ts.GetAccountInfo(tax.NativeAsset, account)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, deposited, info.TotalDeposited.Int64(), "total deposited")
	assert.Equal(ts.t, locked, info.VoteLocked.Int64(), "vote locked")
	return ts
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bank

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var (
	token     = tax.BytesToAddress([]byte("token"))
	alice     = tax.BytesToAddress([]byte("alice"))
	bob       = tax.BytesToAddress([]byte("bob"))
	custodian = tax.BytesToAddress([]byte("staking"))
)

func newBank(t *testing.T) *Bank {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(tax.BytesToAddress([]byte("bank")), state.New(db))
}

func balance(t *testing.T, b *Bank, asset, account tax.Address) int64 {
	v, err := b.BalanceOf(asset, account)
	require.NoError(t, err)
	return v.Int64()
}

func TestMintAndTransfer(t *testing.T) {
	b := newBank(t)

	assert.NoError(t, b.Mint(token, alice, big.NewInt(100)))
	supply, err := b.TotalSupply(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), supply.Int64())

	assert.NoError(t, b.Transfer(token, alice, bob, big.NewInt(30)))
	assert.Equal(t, int64(70), balance(t, b, token, alice))
	assert.Equal(t, int64(30), balance(t, b, token, bob))

	assert.ErrorIs(t, b.Transfer(token, bob, alice, big.NewInt(31)), ErrInsufficientBalance)
	assert.ErrorIs(t, b.Transfer(token, bob, alice, big.NewInt(-1)), ErrNegativeAmount)

	// assets are isolated
	assert.Equal(t, int64(0), balance(t, b, tax.NativeAsset, alice))
}

func TestTransferIn(t *testing.T) {
	b := newBank(t)
	require.NoError(t, b.Mint(token, alice, big.NewInt(100)))
	require.NoError(t, b.Mint(tax.NativeAsset, alice, big.NewInt(100)))

	assert.ErrorIs(t, b.TransferIn(token, alice, custodian, big.NewInt(10)), ErrInsufficientAllowance)

	require.NoError(t, b.Approve(token, alice, custodian, big.NewInt(15)))
	assert.NoError(t, b.TransferIn(token, alice, custodian, big.NewInt(10)))
	assert.Equal(t, int64(10), balance(t, b, token, custodian))

	allowance, err := b.Allowance(token, alice, custodian)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), allowance.Int64())

	// native currency needs no allowance
	assert.NoError(t, b.TransferIn(tax.NativeAsset, alice, custodian, big.NewInt(40)))
	assert.Equal(t, int64(40), balance(t, b, tax.NativeAsset, custodian))

	assert.NoError(t, b.TransferOut(tax.NativeAsset, custodian, bob, big.NewInt(40)))
	assert.Equal(t, int64(40), balance(t, b, tax.NativeAsset, bob))
	assert.ErrorIs(t, b.TransferOut(token, custodian, bob, big.NewInt(11)), ErrInsufficientBalance)
}

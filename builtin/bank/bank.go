// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bank is the token transfer primitive: balances, allowances and supply per asset.
package bank

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var (
	ErrInsufficientBalance   = reverts.New("insufficient balance")
	ErrInsufficientAllowance = reverts.New("insufficient allowance")
	ErrNegativeAmount        = reverts.New("amount must not be negative")
)

var (
	slotBalances   = tax.BytesToBytes32([]byte("balances"))
	slotAllowances = tax.BytesToBytes32([]byte("allowances"))
	slotSupply     = tax.BytesToBytes32([]byte("supply"))
)

type (
	balanceKey   = solidity.PairKey[tax.Address, tax.Address]
	allowanceKey = solidity.PairKey[balanceKey, tax.Address]
)

// Bank keeps the balances of every asset.
type Bank struct {
	balances   *solidity.Mapping[balanceKey, *big.Int]
	allowances *solidity.Mapping[allowanceKey, *big.Int]
	supply     *solidity.Mapping[tax.Address, *big.Int]
}

func New(addr tax.Address, state *state.State) *Bank {
	sctx := solidity.NewContext(addr, state)
	return &Bank{
		balances:   solidity.NewMapping[balanceKey, *big.Int](sctx, slotBalances),
		allowances: solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
		supply:     solidity.NewMapping[tax.Address, *big.Int](sctx, slotSupply),
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// BalanceOf returns the balance of account in asset.
func (b *Bank) BalanceOf(asset, account tax.Address) (*big.Int, error) {
	v, err := b.balances.Get(solidity.NewPairKey(asset, account))
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	return orZero(v), nil
}

// TotalSupply returns the minted amount of asset.
func (b *Bank) TotalSupply(asset tax.Address) (*big.Int, error) {
	v, err := b.supply.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "get supply")
	}
	return orZero(v), nil
}

// Allowance returns how much spender may pull from owner.
func (b *Bank) Allowance(asset, owner, spender tax.Address) (*big.Int, error) {
	v, err := b.allowances.Get(solidity.NewPairKey(solidity.NewPairKey(asset, owner), spender))
	if err != nil {
		return nil, errors.Wrap(err, "get allowance")
	}
	return orZero(v), nil
}

// Mint credits amount to account and raises the supply.
func (b *Bank) Mint(asset, to tax.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	supply, err := b.TotalSupply(asset)
	if err != nil {
		return err
	}
	if err := b.supply.Set(asset, supply.Add(supply, amount)); err != nil {
		return errors.Wrap(err, "set supply")
	}
	return b.credit(asset, to, amount)
}

// Approve sets the allowance of spender over owner's asset.
func (b *Bank) Approve(asset, owner, spender tax.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	key := solidity.NewPairKey(solidity.NewPairKey(asset, owner), spender)
	if err := b.allowances.Set(key, amount); err != nil {
		return errors.Wrap(err, "set allowance")
	}
	return nil
}

// Transfer moves amount of asset from one account to another.
func (b *Bank) Transfer(asset, from, to tax.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := b.debit(asset, from, amount); err != nil {
		return err
	}
	return b.credit(asset, to, amount)
}

// TransferIn pulls amount of asset from an account into custodian.
// Tokens require an allowance granted to custodian. The native asset does not.
func (b *Bank) TransferIn(asset, from, custodian tax.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if asset != tax.NativeAsset {
		allowance, err := b.Allowance(asset, from, custodian)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		if err := b.Approve(asset, from, custodian, allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return b.Transfer(asset, from, custodian, amount)
}

// TransferOut pays amount of asset from custodian to an account.
func (b *Bank) TransferOut(asset, custodian, to tax.Address, amount *big.Int) error {
	return b.Transfer(asset, custodian, to, amount)
}

func (b *Bank) debit(asset, account tax.Address, amount *big.Int) error {
	balance, err := b.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := b.balances.Set(solidity.NewPairKey(asset, account), balance.Sub(balance, amount)); err != nil {
		return errors.Wrap(err, "set balance")
	}
	return nil
}

func (b *Bank) credit(asset, account tax.Address, amount *big.Int) error {
	balance, err := b.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	if err := b.balances.Set(solidity.NewPairKey(asset, account), balance.Add(balance, amount)); err != nil {
		return errors.Wrap(err, "set balance")
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/taxtoken/core/tax"
)

type contract struct {
	Name    string
	Address tax.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		tax.BytesToAddress([]byte(name)),
	}
}

// Addresses returns the address of each builtin contract by name.
func Addresses() map[string]tax.Address {
	all := []*contract{
		Params.contract,
		Bank.contract,
		Staking.contract,
		Governance.contract,
		Whitelist.contract,
		Incentive.contract,
	}
	m := make(map[string]tax.Address, len(all))
	for _, c := range all {
		m[c.Name] = c.Address
	}
	return m
}

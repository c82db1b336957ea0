// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package incentive keeps the fund allocation table. Fractions are E8 fixed point.
package incentive

import (
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var (
	ErrDuplicateAddress = reverts.New("duplicate incentive address")
	ErrAllocationTooBig = reverts.New("total allocation exceeds 100%")
)

var slotAllocations = tax.BytesToBytes32([]byte("allocations"))

// Allocation assigns a share of the incentive fund to an address.
type Allocation struct {
	Address  tax.Address
	Fraction uint64 // E8
}

// Validate checks a table before it replaces the current one.
func Validate(table []Allocation) error {
	seen := make(map[tax.Address]bool, len(table))
	var total uint64
	for _, a := range table {
		if seen[a.Address] {
			return ErrDuplicateAddress
		}
		seen[a.Address] = true
		if a.Fraction > tax.E8 || total+a.Fraction > tax.E8 {
			return ErrAllocationTooBig
		}
		total += a.Fraction
	}
	return nil
}

type Incentive struct {
	table *solidity.Raw[[]Allocation]
}

func New(addr tax.Address, state *state.State) *Incentive {
	return &Incentive{
		table: solidity.NewRaw[[]Allocation](solidity.NewContext(addr, state), slotAllocations),
	}
}

// Allocations returns the current table.
func (i *Incentive) Allocations() ([]Allocation, error) {
	table, err := i.table.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get allocations")
	}
	return table, nil
}

// Replace swaps the whole table.
func (i *Incentive) Replace(table []Allocation) error {
	if err := Validate(table); err != nil {
		return err
	}
	if err := i.table.Set(table); err != nil {
		return errors.Wrap(err, "set allocations")
	}
	return nil
}

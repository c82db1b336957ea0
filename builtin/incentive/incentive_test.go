// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package incentive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

func TestValidate(t *testing.T) {
	a, b := tax.Address{1}, tax.Address{2}

	tests := []struct {
		name  string
		table []Allocation
		err   error
	}{
		{"empty", nil, nil},
		{"full", []Allocation{{a, 6e7}, {b, 4e7}}, nil},
		{"duplicate", []Allocation{{a, 1}, {a, 1}}, ErrDuplicateAddress},
		{"over", []Allocation{{a, 6e7}, {b, 4e7 + 1}}, ErrAllocationTooBig},
		{"single over", []Allocation{{a, 1e8 + 1}}, ErrAllocationTooBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, Validate(tt.table))
		})
	}
}

func TestReplace(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	inc := New(tax.BytesToAddress([]byte("incentive")), state.New(db))

	table, err := inc.Allocations()
	assert.NoError(t, err)
	assert.Empty(t, table)

	next := []Allocation{{tax.Address{1}, 3e7}, {tax.Address{2}, 7e7}}
	assert.NoError(t, inc.Replace(next))
	table, err = inc.Allocations()
	assert.NoError(t, err)
	assert.Equal(t, next, table)

	assert.ErrorIs(t, inc.Replace([]Allocation{{tax.Address{1}, 2e8}}), ErrAllocationTooBig)
	table, _ = inc.Allocations()
	assert.Equal(t, next, table)
}

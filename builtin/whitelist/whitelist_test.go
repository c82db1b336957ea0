// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

func TestWhitelist(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	w := New(tax.BytesToAddress([]byte("whitelist")), state.New(db))

	usdc, dai := tax.Address{1}, tax.Address{2}
	o1, o2 := tax.Address{0xa}, tax.Address{0xb}

	oracle, err := w.OracleOf(usdc)
	assert.NoError(t, err)
	assert.Nil(t, oracle)

	assert.NoError(t, w.Register(usdc, o1))
	assert.NoError(t, w.Register(dai, o2))
	// re-register replaces oracle without duplicating the entry
	assert.NoError(t, w.Register(usdc, o2))

	list, err := w.List()
	assert.NoError(t, err)
	assert.Equal(t, []Entry{{usdc, o2}, {dai, o2}}, list)

	assert.NoError(t, w.Delist(usdc))
	assert.ErrorIs(t, w.Delist(usdc), ErrNotWhitelisted)

	list, err = w.List()
	assert.NoError(t, err)
	assert.Equal(t, []Entry{{dai, o2}}, list)
}

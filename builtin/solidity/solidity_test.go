// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  tax.Address
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(tax.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[tax.Address, *TestStruct](ctx, tax.Bytes32{1})

	key := tax.BytesToAddress([]byte("key"))

	got, err := mapping.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)

	value := &TestStruct{Field1: 100, Field2: big.NewInt(200), Addr1: tax.Address{9}}
	assert.NoError(t, mapping.Set(key, value))

	got, err = mapping.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	// same key under another base position is a different slot
	other := NewMapping[tax.Address, *TestStruct](ctx, tax.Bytes32{2})
	got, err = other.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)

	mapping.Delete(key)
	got, err = mapping.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMappingPairKey(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[PairKey[tax.Address, Uint64Key], uint64](ctx, tax.Bytes32{1})

	a := tax.Address{1}
	assert.NoError(t, mapping.Set(NewPairKey(a, Uint64Key(1)), 10))
	assert.NoError(t, mapping.Set(NewPairKey(a, Uint64Key(2)), 20))

	v, err := mapping.Get(NewPairKey(a, Uint64Key(1)))
	assert.NoError(t, err)
	assert.Equal(t, uint64(10), v)

	v, err = mapping.Get(NewPairKey(a, Uint64Key(3)))
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	raw := NewRaw[[]tax.Address](ctx, tax.Bytes32{3})

	got, err := raw.Get()
	assert.NoError(t, err)
	assert.Empty(t, got)

	list := []tax.Address{{1}, {2}}
	assert.NoError(t, raw.Set(list))
	got, err = raw.Get()
	assert.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, tax.Bytes32{1})

	u.Set(big.NewInt(1000))
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), value)

	assert.NoError(t, u.Add(big.NewInt(500)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1500), value)

	assert.NoError(t, u.Sub(big.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)

	assert.Error(t, u.Sub(big.NewInt(1301)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)
}

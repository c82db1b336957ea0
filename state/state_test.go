// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/tax"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newTestState(t)

	addr := tax.BytesToAddress([]byte("account1"))
	key := tax.BytesToBytes32([]byte("key"))
	value := tax.BytesToBytes32([]byte("value"))

	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	st.SetStorage(addr, key, value)
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	st.SetStorage(addr, key, tax.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := tax.BytesToAddress([]byte("account1"))
	key := tax.BytesToBytes32([]byte("key"))

	values := []tax.Bytes32{
		tax.BytesToBytes32([]byte("v1")),
		tax.BytesToBytes32([]byte("v2")),
		tax.BytesToBytes32([]byte("v3")),
	}

	var revisions []int
	for _, v := range values {
		revisions = append(revisions, st.NewCheckpoint())
		st.SetStorage(addr, key, v)
	}

	for i := len(values) - 1; i >= 0; i-- {
		got, _ := st.GetStorage(addr, key)
		assert.Equal(t, values[i], got)
		st.RevertTo(revisions[i])
	}
	got, _ := st.GetStorage(addr, key)
	assert.True(t, got.IsZero())

	// revert to zero keeps the state usable
	st.RevertTo(0)
	st.SetStorage(addr, key, values[0])
	got, _ = st.GetStorage(addr, key)
	assert.Equal(t, values[0], got)
}

func TestStateEncodeDecode(t *testing.T) {
	st, _ := newTestState(t)
	addr := tax.BytesToAddress([]byte("account1"))
	key := tax.BytesToBytes32([]byte("struct"))

	type pair struct {
		A uint64
		B []byte
	}
	in := pair{A: 7, B: []byte("x")}
	assert.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&in)
	}))

	var out pair
	assert.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &out)
	}))
	assert.Equal(t, in, out)

	h, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.False(t, h.IsZero())

	bad := errors.New("bad value")
	err = st.DecodeStorage(addr, key, func([]byte) error { return bad })
	assert.ErrorIs(t, err, bad)
}

func TestStateCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := tax.BytesToAddress([]byte("account1"))
	k1 := tax.BytesToBytes32([]byte("k1"))
	k2 := tax.BytesToBytes32([]byte("k2"))

	st.NewCheckpoint()
	st.SetStorage(addr, k1, tax.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, tax.BytesToBytes32([]byte("v2")))

	n, err := st.Commit()
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	// a fresh state over the same store sees the committed values
	fresh := New(db)
	got, err := fresh.GetStorage(addr, k1)
	assert.NoError(t, err)
	assert.Equal(t, tax.BytesToBytes32([]byte("v1")), got)

	// deleting a slot removes it from the store
	st.SetStorage(addr, k2, tax.Bytes32{})
	_, err = st.Commit()
	assert.NoError(t, err)

	has, err := db.Has(storageKey{addr, k2}.bytes())
	assert.NoError(t, err)
	assert.False(t, has)

	// nothing pending
	n, err = st.Commit()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStateClaim(t *testing.T) {
	st, db := newTestState(t)
	addr := tax.BytesToAddress([]byte("account1"))
	key := tax.BytesToBytes32([]byte("lock"))

	cp := st.NewCheckpoint()
	assert.True(t, st.Claim(addr, key))
	st.RevertTo(cp)
	assert.False(t, st.Claim(addr, key))
	assert.True(t, st.Claim(tax.BytesToAddress([]byte("account2")), key))

	_, err := st.Commit()
	require.NoError(t, err)
	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// another state object over the same store starts without claims
	assert.True(t, New(db).Claim(addr, key))
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/taxtoken/core/kv"
	"github.com/taxtoken/core/stackedmap"
	"github.com/taxtoken/core/tax"
)

const slotCacheSize = 4096

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr tax.Address
	key  tax.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key[:]...)
}

// State manages the storage slots of all contracts.
type State struct {
	store kv.Store
	cache *lru.ARCCache // committed slots, keyed by string(storageKey.bytes())
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]

	claims map[storageKey]struct{}
}

// New create state object on top of the store.
func New(store kv.Store) *State {
	cache, _ := lru.NewARC(slotCacheSize)
	s := &State{
		store:  store,
		cache:  cache,
		claims: make(map[storageKey]struct{}),
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.cacheGetter)
}

// Claim reserves key of addr on this state object. It reports false if the key was
// claimed before. Claims are kept in memory only and survive checkpoint reverts.
func (s *State) Claim(addr tax.Address, key tax.Bytes32) bool {
	k := storageKey{addr, key}
	if _, ok := s.claims[k]; ok {
		return false
	}
	s.claims[k] = struct{}{}
	return true
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	k := key.bytes()
	if v, ok := s.cache.Get(string(k)); ok {
		return v.(rlp.RawValue), true, nil
	}
	v, err := s.store.Get(k)
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	s.cache.Add(string(k), rlp.RawValue(v))
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr tax.Address, key tax.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr tax.Address, key tax.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr tax.Address, key tax.Bytes32) (tax.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return tax.Bytes32{}, err
	}
	if len(raw) == 0 {
		return tax.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return tax.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, return hash of raw data
		return tax.Blake2b(raw), nil
	}
	return tax.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr tax.Address, key, value tax.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr tax.Address, key tax.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr tax.Address, key tax.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object holding the latest value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{
		store:   s.store,
		cache:   s.cache,
		changes: changes,
	}
}

// Commit writes all journaled changes into the store atomically and starts
// a fresh journal.
func (s *State) Commit() (int, error) {
	stage := s.Stage()
	if err := stage.Commit(); err != nil {
		return 0, &Error{err}
	}
	s.reset()
	metricCommittedSlots().Add(int64(stage.Len()))
	return stage.Len(), nil
}

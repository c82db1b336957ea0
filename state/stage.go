// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/taxtoken/core/kv"
)

// Stage abstracts changes ready to be written.
type Stage struct {
	store   kv.Store
	cache   *lru.ARCCache
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes in one batch. Empty values delete the slot.
func (s *Stage) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	bulk := s.store.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), v)
		}
		if err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		// cached values may be ahead of the store now
		s.cache.Purge()
		return err
	}
	for k, v := range s.changes {
		s.cache.Add(string(k.bytes()), v)
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "encoding/binary"

type Key interface {
	Bytes() []byte
}

// Uint64Key is a mapping key for counters and indexes.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// PairKey composes two keys, e.g. (pool, account).
type PairKey[A Key, B Key] struct {
	First  A
	Second B
}

func NewPairKey[A Key, B Key](a A, b B) PairKey[A, B] {
	return PairKey[A, B]{a, b}
}

func (k PairKey[A, B]) Bytes() []byte {
	return append(append([]byte(nil), k.First.Bytes()...), k.Second.Bytes()...)
}

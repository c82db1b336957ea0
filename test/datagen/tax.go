// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/taxtoken/core/tax"
)

func RandAddress() (addr tax.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b tax.Bytes32) {
	rand.Read(b[:])
	return
}

func RandUint64N(n uint64) uint64 {
	return mathrand.Uint64N(n) //#nosec G404
}

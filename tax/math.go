// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tax

import (
	"math/big"

	"github.com/holiman/uint256"
)

// MulDiv returns floor(x*y/d) computed with a 512-bit intermediate product.
// It reports false when an operand or the result does not fit in 256 bits, or d is zero.
func MulDiv(x, y, d *big.Int) (*big.Int, bool) {
	if x.Sign() < 0 || y.Sign() < 0 || d.Sign() <= 0 {
		return nil, false
	}
	ux, overflow := uint256.FromBig(x)
	if overflow {
		return nil, false
	}
	uy, overflow := uint256.FromBig(y)
	if overflow {
		return nil, false
	}
	ud, overflow := uint256.FromBig(d)
	if overflow {
		return nil, false
	}
	z, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud)
	if overflow {
		return nil, false
	}
	return z.ToBig(), true
}

// Fraction returns floor(amount*numerator/denominator) for fixed point fractions such as E4.
func Fraction(amount *big.Int, numerator, denominator uint64) (*big.Int, bool) {
	return MulDiv(amount, new(big.Int).SetUint64(numerator), new(big.Int).SetUint64(denominator))
}

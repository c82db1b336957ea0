// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var slotParams = tax.BytesToBytes32([]byte("params"))

// Params binder of the governance-tunable parameter store.
type Params struct {
	values *solidity.Mapping[tax.Bytes32, *big.Int]
}

func New(addr tax.Address, state *state.State) *Params {
	sctx := solidity.NewContext(addr, state)
	return &Params{
		values: solidity.NewMapping[tax.Bytes32, *big.Int](sctx, slotParams),
	}
}

// Get native way to get param. An unset param reads as zero.
func (p *Params) Get(key tax.Bytes32) (*big.Int, error) {
	v, err := p.values.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "get param %v", key)
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// Set native way to set param.
func (p *Params) Set(key tax.Bytes32, value *big.Int) error {
	if value.Sign() < 0 {
		return errors.Errorf("negative param %v", key)
	}
	return p.values.Set(key, value)
}

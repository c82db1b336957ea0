// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package whitelist keeps the assets accepted by the protocol together with their price oracles.
package whitelist

import (
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var ErrNotWhitelisted = reverts.New("the asset is not whitelisted")

var (
	slotOracles = tax.BytesToBytes32([]byte("oracles"))
	slotAssets  = tax.BytesToBytes32([]byte("assets"))
)

// Entry is a whitelisted asset and its oracle.
type Entry struct {
	Asset  tax.Address
	Oracle tax.Address
}

// Whitelist binder of the asset registry.
type Whitelist struct {
	oracles *solidity.Mapping[tax.Address, *tax.Address]
	assets  *solidity.Raw[[]tax.Address] // registration order
}

func New(addr tax.Address, state *state.State) *Whitelist {
	sctx := solidity.NewContext(addr, state)
	return &Whitelist{
		oracles: solidity.NewMapping[tax.Address, *tax.Address](sctx, slotOracles),
		assets:  solidity.NewRaw[[]tax.Address](sctx, slotAssets),
	}
}

// OracleOf returns the oracle of asset, nil if not whitelisted.
func (w *Whitelist) OracleOf(asset tax.Address) (*tax.Address, error) {
	oracle, err := w.oracles.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "get oracle")
	}
	return oracle, nil
}

// Register whitelists asset. Registering a known asset replaces its oracle.
func (w *Whitelist) Register(asset, oracle tax.Address) error {
	prev, err := w.OracleOf(asset)
	if err != nil {
		return err
	}
	if prev == nil {
		assets, err := w.assets.Get()
		if err != nil {
			return errors.Wrap(err, "get assets")
		}
		if err := w.assets.Set(append(assets, asset)); err != nil {
			return errors.Wrap(err, "set assets")
		}
	}
	return w.oracles.Set(asset, &oracle)
}

// Delist removes asset from the whitelist.
func (w *Whitelist) Delist(asset tax.Address) error {
	prev, err := w.OracleOf(asset)
	if err != nil {
		return err
	}
	if prev == nil {
		return ErrNotWhitelisted
	}
	assets, err := w.assets.Get()
	if err != nil {
		return errors.Wrap(err, "get assets")
	}
	for i, a := range assets {
		if a == asset {
			assets = append(assets[:i], assets[i+1:]...)
			break
		}
	}
	if err := w.assets.Set(assets); err != nil {
		return errors.Wrap(err, "set assets")
	}
	w.oracles.Delete(asset)
	return nil
}

// List returns all entries in registration order.
func (w *Whitelist) List() ([]Entry, error) {
	assets, err := w.assets.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get assets")
	}
	entries := make([]Entry, 0, len(assets))
	for _, asset := range assets {
		oracle, err := w.OracleOf(asset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Asset: asset, Oracle: *oracle})
	}
	return entries, nil
}

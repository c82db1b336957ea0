// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis sets up the initial ledger state from a config.
package genesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin"
	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var logger = log.New("pkg", "genesis")

// Genesis to build the initial state.
type Genesis struct {
	builder *Builder
	id      tax.Bytes32
	name    string
	turnout governance.TurnoutPolicy
}

// New validates cfg and prepares the genesis it describes.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder := new(Builder).
		State(func(st *state.State) error {
			params := builtin.Params.WithState(st)
			if err := params.Set(tax.KeyStakingToken, new(big.Int).SetBytes(cfg.Token.Bytes())); err != nil {
				return err
			}
			return governance.StoreCoreParameters(params, cfg.Governance.CoreParameters())
		}).
		State(func(st *state.State) error {
			stk := builtin.Staking.WithState(st, cfg.Token, 0)
			for _, p := range cfg.Pools {
				start := p.Start
				if start == 0 {
					start = cfg.LaunchTime
				}
				if err := stk.RegisterPool(p.Asset, start, p.Interval); err != nil {
					return errors.WithMessagef(err, "pool %s", p.Asset)
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			bank := builtin.Bank.WithState(st)
			for _, b := range cfg.Balances {
				if err := bank.Mint(b.Asset, b.Address, (*big.Int)(b.Amount)); err != nil {
					return errors.WithMessagef(err, "mint %s", b.Address)
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			wl := builtin.Whitelist.WithState(st)
			for _, w := range cfg.Whitelist {
				if err := wl.Register(w.Asset, w.Oracle); err != nil {
					return err
				}
			}
			if len(cfg.Incentive) == 0 {
				return nil
			}
			return builtin.Incentive.WithState(st).Replace(cfg.allocations())
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{
		builder: builder,
		id:      id,
		name:    cfg.Name,
		turnout: cfg.Governance.TurnoutPolicy(),
	}, nil
}

// NewDevnet creates the genesis of the embedded development config.
func NewDevnet() *Genesis {
	gen, err := New(Default())
	if err != nil {
		panic(err)
	}
	return gen
}

// ID returns the genesis id.
func (g *Genesis) ID() tax.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// TurnoutPolicy returns the apply time turnout policy of the network.
func (g *Genesis) TurnoutPolicy() governance.TurnoutPolicy {
	return g.turnout
}

// StoredID returns the id of the genesis st was set up from, zero if none.
func StoredID(st *state.State) (tax.Bytes32, error) {
	v, err := builtin.Params.WithState(st).Get(tax.KeyGenesisID)
	if err != nil {
		return tax.Bytes32{}, err
	}
	return tax.BytesToBytes32(v.Bytes()), nil
}

// Setup writes the genesis state and its marker in one commit.
// It reports false if st was already set up from the same genesis, and fails
// if st was set up from another one.
func (g *Genesis) Setup(st *state.State) (bool, error) {
	stored, err := StoredID(st)
	if err != nil {
		return false, err
	}
	if !stored.IsZero() {
		if stored != g.id {
			return false, errors.Errorf("genesis mismatch: stored %v, configured %v", stored, g.id)
		}
		return false, nil
	}

	cp := st.NewCheckpoint()
	err = func() error {
		if err := g.builder.Build(st); err != nil {
			return err
		}
		if err := builtin.Params.WithState(st).Set(tax.KeyGenesisID, new(big.Int).SetBytes(g.id[:])); err != nil {
			return err
		}
		_, err := st.Commit()
		return err
	}()
	if err != nil {
		st.RevertTo(cp)
		return false, err
	}
	logger.Info("genesis applied", "name", g.name, "id", g.id)
	return true, nil
}

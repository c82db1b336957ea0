// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger sets up a ledger on the development genesis, backed by an in-memory store.
package testledger

import (
	"math/big"

	"github.com/taxtoken/core/builtin"
	"github.com/taxtoken/core/clock"
	"github.com/taxtoken/core/genesis"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

// Accounts funded by the development genesis.
var (
	Dev1     = tax.MustParseAddress("0xf077b491b355E64048cE21E3A6Fc4751eEeA77fa")
	Dev2     = tax.MustParseAddress("0x435933c8064b4Ae76bE665428e0307eF2cCFBD68")
	Dev3     = tax.MustParseAddress("0x0F872421Dc479F3c11eDd89512731814D0598dB5")
	Treasury = tax.MustParseAddress("0x0000000000000000000000005472656173757279")
	USDC     = tax.MustParseAddress("0x00000000000000000000000000555344436f696e")
)

// Interval is the term length of the development pools.
const Interval = 7 * 24 * 3600

type Ledger struct {
	*ledger.Ledger
	db      *lvldb.LevelDB
	clock   *clock.Mock
	state   *state.State
	genesis *genesis.Genesis
}

// New creates a ledger at the development launch time.
func New() (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	cfg := genesis.Default()
	gen, err := genesis.New(cfg)
	if err != nil {
		return nil, err
	}
	st := state.New(db)
	if _, err := gen.Setup(st); err != nil {
		return nil, err
	}
	clk := clock.NewMock(cfg.LaunchTime)
	l, err := ledger.New(st, clk, ledger.Options{Turnout: gen.TurnoutPolicy()})
	if err != nil {
		return nil, err
	}
	return &Ledger{l, db, clk, st, gen}, nil
}

func (l *Ledger) Clock() *clock.Mock {
	return l.clock
}

func (l *Ledger) State() *state.State {
	return l.state
}

func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// ApproveAndStake lets the staking contract pull amount and stakes it into pool.
func (l *Ledger) ApproveAndStake(account, pool tax.Address, amount *big.Int) error {
	if err := l.Approve(l.Token(), account, builtin.Staking.Address, amount); err != nil {
		return err
	}
	return l.Stake(account, pool, amount)
}

// NextTerm moves the clock one term forward.
func (l *Ledger) NextTerm() {
	l.clock.Advance(Interval)
}

// Ether returns n * 1e18.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

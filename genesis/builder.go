// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/taxtoken/core/kv"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID builds the state into an empty in-memory store and hashes every slot written.
func (b *Builder) ComputeID() (tax.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return tax.Bytes32{}, err
	}
	defer db.Close()

	st := state.New(db)
	if err := b.Build(st); err != nil {
		return tax.Bytes32{}, err
	}
	if _, err := st.Commit(); err != nil {
		return tax.Bytes32{}, errors.Wrap(err, "commit state")
	}

	var data [][]byte
	if err := db.Iterate(kv.Range{}, func(pair kv.Pair) bool {
		data = append(data, bytes.Clone(pair.Key()), bytes.Clone(pair.Value()))
		return true
	}); err != nil {
		return tax.Bytes32{}, errors.Wrap(err, "iterate state")
	}
	return tax.Blake2b(data...), nil
}

// Build runs the state processes. Changes are left uncommitted.
func (b *Builder) Build(st *state.State) error {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return errors.Wrap(err, "state process")
		}
	}
	return nil
}

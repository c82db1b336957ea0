// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/taxtoken/core/clock"
	"github.com/taxtoken/core/genesis"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/test"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("taxd", flag.ContinueOnError)
	for _, f := range defaultFlags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestInitLedger(t *testing.T) {
	ctx := newContext(t, "--data-dir", memoryDataDir, "--max-term-step", "10")
	gene, err := selectGenesis(ctx)
	require.NoError(t, err)

	db, dir, err := openDB(ctx, gene)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "Memory", dir)

	clk := clock.NewMock(genesis.Default().LaunchTime)
	l, err := initLedger(ctx, gene, db, clk)
	require.NoError(t, err)

	// reopening the same store keeps the ledger
	_, err = initLedger(ctx, gene, db, clk)
	require.NoError(t, err)

	out, err := dumpLedger(l, gene)
	require.NoError(t, err)
	assert.Equal(t, gene.ID().String(), out.Genesis)
	require.Len(t, out.Pools, 2)
	assert.Equal(t, uint64(0), out.Pools[0].CurrentTerm)
	assert.Equal(t, uint64(500), out.Parameters["minVote"])
	assert.Empty(t, out.Proposals)
	assert.Len(t, out.Whitelist, 1)
	assert.Len(t, out.Incentive, 2)
}

func TestOpenDBOnDisk(t *testing.T) {
	dataDir := t.TempDir()
	ctx := newContext(t, "--data-dir", dataDir)
	gene, err := selectGenesis(ctx)
	require.NoError(t, err)

	db, dir, err := openDB(ctx, gene)
	require.NoError(t, err)
	assert.Equal(t, instanceDir(dataDir, gene), dir)
	require.NoError(t, db.Close())

	db, err = lvldb.New(dir+"/main.db", lvldb.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSelectGenesisMissingConfig(t *testing.T) {
	ctx := newContext(t, "--config", "/nonexistent/genesis.yaml")
	_, err := selectGenesis(ctx)
	assert.Error(t, err)
}

func TestServer(t *testing.T) {
	srv := newServer("test", "localhost:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	require.NoError(t, srv.listen())

	done := make(chan error, 1)
	go func() { done <- srv.serve() }()

	err := test.Retry(func() error {
		res, err := http.Get(srv.url())
		if err != nil {
			return err
		}
		res.Body.Close()
		assert.Equal(t, http.StatusTeapot, res.StatusCode)
		return nil
	}, 10*time.Millisecond, time.Second)
	require.NoError(t, err)

	srv.shutdown()
	assert.NoError(t, <-done)
}

func TestReadIntFromUInt64Flag(t *testing.T) {
	v, err := readIntFromUInt64Flag(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = readIntFromUInt64Flag(^uint64(0))
	assert.Error(t, err)
}

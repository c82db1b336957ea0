// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/taxtoken/core/clock"
	"github.com/taxtoken/core/genesis"
	"github.com/taxtoken/core/kv"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/lvldb"
	"github.com/taxtoken/core/state"
)

// stateBucket prefixes every ledger slot in the database.
const stateBucket = kv.Bucket("s")

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d", val)
	}
	return int(val), nil
}

// initLogger installs the root logger and returns its level, adjustable at runtime.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(lvl))

	var output io.Writer = os.Stderr
	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(output, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(output, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.taxtoken.taxd")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.taxtoken.taxd")
		default:
			return filepath.Join(home, ".org.taxtoken.taxd")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	return genesis.New(cfg)
}

// instanceDir separates the databases of different genesis configs under one data dir.
func instanceDir(dataDir string, gene *genesis.Genesis) string {
	return filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
}

func openDB(ctx *cli.Context, gene *genesis.Genesis) (*lvldb.LevelDB, string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == memoryDataDir {
		db, err := lvldb.NewMem()
		return db, "Memory", err
	}
	if dataDir == "" {
		return nil, "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	dir := instanceDir(dataDir, gene)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create instance dir [%v]", dir)
	}

	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// keep Go's GC from counting the database cache in its trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache, err := suggestFDCache()
	if err != nil {
		return nil, "", err
	}
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open database [%v]", path)
	}
	return db, dir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120), nil
}

// initLedger applies genesis to a fresh store and binds a ledger to it.
func initLedger(ctx *cli.Context, gene *genesis.Genesis, db kv.Store, clk clock.Clock) (*ledger.Ledger, error) {
	st := state.New(stateBucket.NewStore(db))
	applied, err := gene.Setup(st)
	if err != nil {
		return nil, err
	}
	if !applied {
		logger.Debug("genesis already applied", "id", gene.ID())
	}
	return ledger.New(st, clk, ledger.Options{
		MaxTermStep: ctx.Uint64(maxTermStepFlag.Name),
		Turnout:     gene.TurnoutPolicy(),
	})
}

func printStartupMessage(gene *genesis.Genesis, dir string, now uint64) {
	fmt.Printf(`Starting taxd %v
    Genesis      [ %v %v ]
    Ledger time  [ %v ]
    Instance dir [ %v ]
`,
		fullVersion(),
		gene.ID(), gene.Name(),
		time.Unix(int64(now), 0),
		dir)
}

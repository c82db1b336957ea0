// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// taxd serves the staking ledger and the governance engine over HTTP.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/taxtoken/core/api"
	"github.com/taxtoken/core/api/admin"
	"github.com/taxtoken/core/clock"
	"github.com/taxtoken/core/genesis"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/metrics"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	logger = log.New("pkg", "taxd")

	defaultFlags = []cli.Flag{
		dataDirFlag,
		configFlag,
		cacheFlag,
		maxTermStepFlag,
		apiAddrFlag,
		apiCorsFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		pprofFlag,
		enableAdminFlag,
		adminAddrFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "taxd",
		Usage:     "Staking ledger and governance node of the tax token",
		Copyright: fmt.Sprintf("2025-%s The VeChainThor developers", copyrightYear),
		Flags:     defaultFlags,
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "genesis",
				Usage:  "Print the default genesis config",
				Action: genesisAction,
			},
			{
				Name:  "dump",
				Usage: "Print pools, governance parameters and proposals as JSON",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					verbosityFlag,
				},
				Action: dumpAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	db, dir, err := openDB(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	l, err := initLedger(ctx, gene, db, clock.NewSystem())
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})

	servers := []*server{newServer("api", ctx.String(apiAddrFlag.Name), apiHandler)}
	if ctx.Bool(enableAdminFlag.Name) {
		servers = append(servers, newServer("admin", ctx.String(adminAddrFlag.Name), admin.New(logLevel, apiLogs)))
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		servers = append(servers, newServer("metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler()))
	}

	printStartupMessage(gene, dir, l.Now())

	for i, srv := range servers {
		if err := srv.listen(); err != nil {
			for _, opened := range servers[:i] {
				opened.listener.Close()
			}
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(exitSignal)
	for _, srv := range servers {
		logger.Info("server started", "name", srv.name, "url", srv.url())
		group.Go(srv.serve)
	}
	group.Go(func() error {
		<-groupCtx.Done()
		for _, srv := range servers {
			logger.Info("stopping server...", "name", srv.name)
			srv.shutdown()
		}
		return nil
	})
	return group.Wait()
}

func genesisAction(*cli.Context) error {
	_, err := os.Stdout.Write(genesis.DefaultYAML())
	return err
}

type dump struct {
	Genesis    string            `json:"genesis"`
	Time       uint64            `json:"time"`
	Pools      []dumpPool        `json:"pools"`
	Parameters map[string]uint64 `json:"parameters"`
	Proposals  []map[string]any  `json:"proposals"`
	Whitelist  map[string]string `json:"whitelist"`
	Incentive  map[string]uint64 `json:"incentive"`
}

type dumpPool struct {
	Asset       string `json:"asset"`
	CurrentTerm uint64 `json:"currentTerm"`
	LatestTerm  uint64 `json:"latestTerm"`
	Staking     string `json:"staking"`
	Remaining   string `json:"remainingRewards"`
}

func dumpAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	db, _, err := openDB(ctx, gene)
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := initLedger(ctx, gene, db, clock.NewSystem())
	if err != nil {
		return err
	}
	out, err := dumpLedger(l, gene)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func dumpLedger(l *ledger.Ledger, gene *genesis.Genesis) (*dump, error) {
	out := &dump{
		Genesis:   gene.ID().String(),
		Time:      l.Now(),
		Whitelist: make(map[string]string),
		Incentive: make(map[string]uint64),
	}

	pools, err := l.Pools()
	if err != nil {
		return nil, errors.Wrap(err, "pools")
	}
	for _, pool := range pools {
		info, err := l.GetTokenInfo(pool)
		if err != nil {
			return nil, errors.Wrapf(err, "pool %v", pool)
		}
		out.Pools = append(out.Pools, dumpPool{
			Asset:       pool.String(),
			CurrentTerm: info.CurrentTerm,
			LatestTerm:  info.LatestTerm,
			Staking:     info.CurrentStaking.String(),
			Remaining:   info.TotalRemainingRewards.String(),
		})
	}

	cp, err := l.GetCoreParameters()
	if err != nil {
		return nil, errors.Wrap(err, "parameters")
	}
	out.Parameters = map[string]uint64{
		"preVoteLength":    cp.PreVoteLength,
		"totalVoteLength":  cp.TotalVoteLength,
		"expirationLength": cp.ExpirationLength,
		"minVote":          cp.MinVoteE4,
		"minVoteCore":      cp.MinVoteCoreE4,
		"minCommit":        cp.MinCommitE4,
	}

	proposals, err := l.GetProposals(0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "proposals")
	}
	for _, p := range proposals {
		status, err := l.GetStatus(p.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "proposal %v", p.ID)
		}
		out.Proposals = append(out.Proposals, map[string]any{
			"id":       p.ID.String(),
			"kind":     p.Payload.Kind().String(),
			"proposer": p.Proposer.String(),
			"approval": p.ApprovalVoteSum.String(),
			"denial":   p.DenialVoteSum.String(),
			"lockedIn": p.LockedIn,
			"status":   status.String(),
		})
	}

	whitelist, err := l.GetWhitelist()
	if err != nil {
		return nil, errors.Wrap(err, "whitelist")
	}
	for _, e := range whitelist {
		out.Whitelist[e.Asset.String()] = e.Oracle.String()
	}
	table, err := l.GetIncentiveAllocations()
	if err != nil {
		return nil, errors.Wrap(err, "incentive")
	}
	for _, a := range table {
		out.Incentive[a.Address.String()] = a.Fraction
	}
	return out, nil
}

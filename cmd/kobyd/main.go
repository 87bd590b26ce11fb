// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/koby-labs/staking/api"
	"github.com/koby-labs/staking/genesis"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/metrics"
	"github.com/koby-labs/staking/runtime"
	"github.com/koby-labs/staking/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "kobyd")
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
		Name:      "kobyd",
		Usage:     "NFT staking ledger node",
		Copyright: "2025 Koby Labs",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
			cacheSizeFlag,
			devFlag,
			persistFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	dbs, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer dbs.Close()

	stater := state.NewStater(dbs.main, stateCacheEntries)
	rt := runtime.New(stater, dbs.logDB)
	applied, err := gene.Apply(rt)
	if err != nil {
		return errors.WithMessage(err, "apply genesis")
	}
	if !applied {
		logger.Info("genesis already applied", "dir", dbs.dir)
	}

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		DevMode:         ctx.Bool(devFlag.Name),
	})
	defer closeSubs()

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)

	apiURL, err := startServer(groupCtx, group, "api", ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = startServer(groupCtx, group, "metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler()); err != nil {
			return err
		}
	}

	group.Go(func() error { return houseKeeping(groupCtx, stater) })

	printStartupMessage(gene, dbs.dir, apiURL, metricsURL, ctx.Bool(devFlag.Name))

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	if ctx.Bool(devFlag.Name) {
		if ctx.Bool(persistFlag.Name) {
			// persisted dev ledgers need the same genesis on every start
			return genesis.NewDevnet(devnetLaunchTime), nil
		}
		return genesis.NewDevnet(uint64(time.Now().Unix())), nil
	}
	return nil, errors.Errorf("either --%s or --%s is required", genesisFlag.Name, devFlag.Name)
}

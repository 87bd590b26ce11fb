// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/koby-labs/staking/genesis"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/logdb"
	"github.com/koby-labs/staking/lvldb"
)

const (
	// devnetLaunchTime is the genesis time of persisted dev ledgers.
	devnetLaunchTime uint64 = 1_700_000_000
	// stateCacheEntries bounds the decoded storage slots kept in memory.
	stateCacheEntries = 65536

	shutdownTimeout = 5 * time.Second
)

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".koby")
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

type databases struct {
	dir   string
	main  *lvldb.LevelDB
	logDB *logdb.LogDB
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.logDB.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openDatabases opens the stores of gene under a directory named by its id.
// Dev ledgers stay in memory unless --persist is set.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*databases, error) {
	if ctx.Bool(devFlag.Name) && !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, err
		}
		return &databases{"Memory", mainDB, logDB}, nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
	}
	id, err := gene.ID()
	if err != nil {
		return nil, err
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}

	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheSizeFlag.Name)),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.WithMessage(err, "open log database")
	}
	return &databases{instanceDir, mainDB, logDB}, nil
}

// startServer listens on addr and serves handler until ctx is done.
func startServer(ctx context.Context, group *errgroup.Group, name, addr string, handler http.Handler) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping server...", "name", name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrapf(err, "serve %s", name)
		}
		return ctx.Err()
	})
	return "http://" + listener.Addr().String() + "/", nil
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
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

func printStartupMessage(gene *genesis.Genesis, dataDir, apiURL, metricsURL string, dev bool) {
	id, _ := gene.ID()
	metricsInfo := "Disabled"
	if metricsURL != "" {
		metricsInfo = metricsURL
	}
	mode := "Production"
	if dev {
		mode = "Dev (POST /calls enabled)"
	}

	fmt.Printf(`Starting kobyd %v
    Genesis    [ %v ]
    Owner      [ %v ]
    Instance   [ %v ]
    Mode       [ %v ]
    API portal [ %v ]
    Metrics    [ %v ]
`,
		fullVersion(),
		id,
		gene.Owner,
		dataDir,
		mode,
		apiURL,
		metricsInfo,
	)
}

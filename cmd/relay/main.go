// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/vechain/gasless/api"
	"github.com/vechain/gasless/api/admin"
	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/genesis"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/metrics"
	"github.com/vechain/gasless/relay"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
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
		Name:      "Gasless",
		Usage:     "Relay for paymaster sponsored operations",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			gasLimitFlag,
			receiptCacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEnableReqLoggerFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	// metrics must be initialized before any meter is resolved
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing database...")
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "err", err)
		}
	}()

	built, err := genesis.Init(relay.StateStore(db), cfg)
	if err != nil {
		return errors.Wrap(err, "init genesis")
	}
	if built {
		logger.Info("genesis state built", "paymasters", len(cfg.Paymasters))
	}

	r, err := relay.New(db, relay.Options{
		BaseFee:          cfg.BaseFee(),
		GasLimit:         ctx.Uint64(gasLimitFlag.Name),
		ReceiptCacheSize: ctx.Int(receiptCacheFlag.Name),
	})
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(apiEnableReqLoggerFlag.Name))

	handler := api.New(r, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})

	group, groupCtx := errgroup.WithContext(exitSignal)

	apiURL, err := startServer(groupCtx, group, ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return errors.Wrap(err, "start API server")
	}

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, err := startServer(groupCtx, group, ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		metricsURL = url + "/metrics"
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, err := startServer(groupCtx, group, ctx.String(adminAddrFlag.Name), admin.New(logLevel, apiLogs))
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		adminURL = url + "/admin"
	}

	printStartupMessage(cfg.BaseFee(), apiURL, metricsURL, adminURL)
	logger.Info("relay started", "entryPoint", builtin.EntryPoint.Address, "dataDir", ctx.String(dataDirFlag.Name))

	return group.Wait()
}

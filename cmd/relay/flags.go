// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML file describing the genesis state",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for state and receipts",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the database cache",
	}
	gasLimitFlag = cli.Uint64Flag{
		Name:  "gas-limit",
		Value: relay.DefaultGasLimit,
		Usage: "gas available to each EntryPoint call",
	}
	receiptCacheFlag = cli.IntFlag{
		Name:  "receipt-cache",
		Value: relay.DefaultReceiptCacheSize,
		Usage: "number of receipts kept in memory",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: thor.DefaultAPIAddr,
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEnableReqLoggerFlag = cli.BoolFlag{
		Name:  "api-enable-req-logger",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: time.Second,
		Usage: "requests slower than this are logged even when request logging is disabled, 0 to disable",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests answered with a 5xx status",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: thor.DefaultMetricsAddr,
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
)

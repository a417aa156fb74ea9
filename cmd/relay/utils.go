// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/config"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/lvldb"
	"github.com/vechain/gasless/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stdout.Fd()) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		handler = log.LogfmtHandlerWithLevel(os.Stdout, logLevel)
	}
	log.SetDefault(log.NewLogger(handler))

	// go-ethereum is only used as a library, keep it quiet
	ethlog.SetDefault(ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(os.Stderr, ethlog.LevelWarn, false)))
	return logLevel
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		logger.Warn("no config given, no paymaster will be registered at genesis")
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config [%v]", path)
	}
	return cfg, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}
	cacheMB := ctx.Int(cacheFlag.Name)
	if cacheMB < 16 {
		cacheMB = 16
	}
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database [%v]", dir)
	}
	return db, nil
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

// startServer serves handler on addr until ctx is done, and returns the base url.
func startServer(ctx context.Context, group *errgroup.Group, addr string, handler http.Handler) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen [%v]", addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "serve [%v]", addr)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return "http://" + listener.Addr().String(), nil
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

func printStartupMessage(baseFee *big.Int, apiURL, metricsURL, adminURL string) {
	orNone := func(s string) string {
		if s == "" {
			return "disabled"
		}
		return s
	}
	fmt.Printf(`Starting Gasless %v
    EntryPoint   [ %v ]
    Base fee     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullVersion(),
		builtin.EntryPoint.Address,
		baseFee,
		apiURL,
		orNone(metricsURL),
		orNone(adminURL))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.gasless")
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

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"flag"
	"io"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String(configFlag.Name, "", "")
	set.String(dataDirFlag.Name, "", "")
	set.Int(cacheFlag.Name, cacheFlag.Value, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(newContext(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.Paymasters)

	path := filepath.Join(t.TempDir(), "gasless.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entryPoint:\n  minPaymasterStake: 1\n  minUnstakeDelaySec: 60\n  baseFee: \"0x0a\"\n"), 0600))

	cfg, err = loadConfig(newContext(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), cfg.BaseFee())

	_, err = loadConfig(newContext(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "load config")
}

func TestOpenDB(t *testing.T) {
	_, err := openDB(newContext(t))
	assert.ErrorContains(t, err, "unable to infer default data dir")

	dir := filepath.Join(t.TempDir(), "data")
	db, err := openDB(newContext(t, "--data-dir", dir))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	assert.DirExists(t, filepath.Join(dir, "main.db"))
}

func TestStartServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)

	url, err := startServer(groupCtx, group, "localhost:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	require.NoError(t, err)

	res, err := http.Get(url + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	assert.NoError(t, group.Wait())

	_, err = startServer(groupCtx, group, "not-an-addr", http.NotFoundHandler())
	assert.Error(t, err)
}

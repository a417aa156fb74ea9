// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/gasless/api/admin/apilogs"
	"github.com/vechain/gasless/api/admin/loglevel"
)

// New returns the admin router, serving the log level and the api request logging switch.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")

	return handlers.CompressHandler(router)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/gasless/api/doc"
	"github.com/vechain/gasless/api/middleware"
	"github.com/vechain/gasless/api/operations"
	"github.com/vechain/gasless/api/paymasters"
	"github.com/vechain/gasless/api/utils"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// Info describes the relay.
type Info struct {
	Version    string       `json:"version"`
	EntryPoint thor.Address `json:"entryPoint"`
	BaseFee    string       `json:"baseFee"`
}

// New return api router
func New(r *relay.Relay, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// to serve api docs
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/gasless.yaml", http.StatusTemporaryRedirect)
		})

	info := &Info{
		Version:    doc.Version(),
		EntryPoint: thor.EntryPointAddress,
		BaseFee:    r.BaseFee().String(),
	}
	router.Path("/info").
		Methods(http.MethodGet).
		Name("info").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, info)
		}))

	operations.New(r).
		Mount(router, "/operations")
	paymasters.New(r).
		Mount(router, "/paymasters")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.ExposedHeaders([]string{"x-gasless-ver"}),
	)(handler)
	handler = versionHandler(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler
}

func versionHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-gasless-ver", doc.Version())
		next.ServeHTTP(w, r)
	})
}

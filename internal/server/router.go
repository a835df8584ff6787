// Package server exposes the migration as an HTTP endpoint.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const DefaultPath = "/migrate-test-cases"

// NewRouter wires the migrate endpoint and its middleware.
func NewRouter(runner Runner, path string, log *zap.Logger) *mux.Router {
	if path == "" {
		path = DefaultPath
	}

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(RecoveryMiddleware(log))
	r.Use(CORSMiddleware)

	r.HandleFunc(path, MigrateHandler(runner, log)).Methods(http.MethodPost, http.MethodOptions)
	return r
}

// NewServer wraps the router with timeouts. There is no write timeout: a
// run is not cancelled and may take as long as the record set requires.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

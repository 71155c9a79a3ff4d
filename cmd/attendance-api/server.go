// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/classtrack/attendance-service/internal/logging"
	"github.com/classtrack/attendance-service/internal/middleware"
)

// newRouter builds the HTTP routes and middleware chain for the service.
func newRouter(api *AttendanceAPI) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLoggerMiddleware())
	r.Use(middleware.WebhookBodyCaptureMiddleware())

	r.Post("/webhook", api.HandleStreamWebhook)
	r.Get("/livez", api.Livez)
	r.Get("/readyz", api.Readyz)

	return r
}

// setupHTTPServer configures and starts the HTTP server.
func setupHTTPServer(flags flags, api *AttendanceAPI, gracefulCloseWG *sync.WaitGroup) *http.Server {
	handler := newRouter(api)

	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}

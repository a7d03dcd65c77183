package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/asnowfix/wololo/internal/metrics"
	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/internal/wake"
	"github.com/asnowfix/wololo/pkg/mac"

	"github.com/go-logr/logr"
	"github.com/gorilla/schema"
)

type Machines interface {
	Machines(ctx context.Context) ([]providers.Machine, error)
}

type Waker interface {
	Wake(ctx context.Context, req wake.Request) (mac.Address, error)
}

type Options struct {
	Metrics bool
}

// Handler serves the machine list on / and the wake form target on /wake
func Handler(log logr.Logger, machines Machines, waker Waker, options Options) http.Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RenderIndex(r.Context(), machines, w); err != nil {
			log.Error(err, "failed to render index page")
			http.Error(w, "unable to render index", http.StatusInternalServerError)
			return
		}
		log.V(1).Info("served index", "dur", time.Since(start))
	})

	mux.HandleFunc("POST /wake", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req wake.Request
		if err := decoder.Decode(&req, r.PostForm); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		addr, err := waker.Wake(r.Context(), req)
		if err != nil {
			log.Info("wake rejected", "machine", req.Machine, "mac_address", req.MacAddress, "error", err.Error())
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RenderWoke(w, WokeData{Machine: req.Machine, Mac: addr}); err != nil {
			log.Error(err, "failed to render wake page")
		}
	})

	if options.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Panic recovery to avoid blank pages
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(fmt.Errorf("%v", rec), "panic recovered", "path", r.URL.Path, "stack", string(debug.Stack()))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		log.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "ua", r.UserAgent())
		mux.ServeHTTP(w, r)
	})
}

// Start binds addr, serves in the background and shuts the server down when ctx is done.
// The returned channel yields a serve error, if any, and is closed once the server stopped.
func Start(ctx context.Context, log logr.Logger, addr string, handler http.Handler) (<-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ui listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)

	go func() {
		defer close(done)
		log.Info("UI server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "UI server failed")
			done <- err
			return
		}
		log.Info("UI server stopped")
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		log.V(1).Info("UI server shutdown")
	}()

	return done, nil
}

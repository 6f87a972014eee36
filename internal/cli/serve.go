package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crator-sh/crator/pkg/cache"
	"github.com/crator-sh/crator/pkg/errors"
)

// serveCommand creates the "serve" command: a small JSON API in front of
// the retrieval pipeline, sharing the record cache across requests.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve crate metadata over HTTP",
		Long: `Serve crate metadata as a JSON API.

Endpoints:
  GET /api/v1/crates/{name}  retrieve a crate record
  GET /healthz               liveness probe

With the redis cache backend configured, several instances can share one
record cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			store := c.newCache(ctx, noCache)
			defer store.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           c.routes(store),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "host", c.Config.Host)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the record cache")

	return cmd
}

// routes builds the chi router for the serve command.
func (c *CLI) routes(store cache.Cache) http.Handler {
	client := c.newClient()

	r := chi.NewRouter()
	r.Use(c.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/v1/crates/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")

		ctx := req.Context()
		if c.Config.Timeout.Value() <= 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, contextTimeout)
			defer cancel()
		}

		rec, cached, err := c.lookup(ctx, store, client, name, false)
		if err != nil {
			writeError(w, err)
			return
		}
		if cached {
			w.Header().Set("X-Cache", "hit")
		}
		writeJSON(w, http.StatusOK, rec)
	})

	return r
}

// requestLogger assigns each request an ID and logs its outcome.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, req)

		c.Logger.Debug("request",
			"id", id,
			"method", req.Method,
			"path", req.URL.Path,
			"status", rw.status,
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// apiError is the JSON error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps retrieval error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidCrate, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeHTTP:
		if errors.StatusOf(err) == http.StatusNotFound {
			status = http.StatusNotFound
		} else {
			status = http.StatusBadGateway
		}
	case errors.ErrCodeConnection:
		status = http.StatusBadGateway
	case errors.ErrCodeParse, errors.ErrCodePathNotFound, errors.ErrCodeFormat:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, apiError{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

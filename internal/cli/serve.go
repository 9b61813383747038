package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/exevalator"
	"github.com/zephyrtronium/exevalator/internal/config"
	"github.com/zephyrtronium/exevalator/mathfuncs"
)

// maxRequestBytes limits the size of request bodies.
const maxRequestBytes = 64 << 10

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve expression evaluation over HTTP",
		Long: `Serve a JSON API for evaluating expressions.

  POST /eval       {"expression": "x + 1", "variables": {"x": 2}}
                   -> {"value": 3}
                   -> {"error": "...", "reason": "VariableNotFound"}
  GET  /functions  names of connected functions
  GET  /healthz    liveness

Each request gets its own engine with the configured variables, overridden by
the request's. Error messages follow the Accept-Language header, falling back
to the configured language.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	cmd.Flags().Bool("watch", false, "reload the config file when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)
	s := newServer(cfg, logger)

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    cfg.Serve.Addr,
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if path := getConfigFile(ctx); cfg.Serve.Watch && path != "" {
		eg.Go(func() error {
			return config.Watch(egctx, path, cmd.Flags(), logger, s.setConfig)
		})
	}

	eg.Go(func() error {
		logger.Info("serving", slog.String("addr", cfg.Serve.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Serve.ShutdownTimeout)
		defer cancel()
		logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// server answers evaluation requests.
type server struct {
	cfg    atomic.Pointer[config.Config]
	logger *slog.Logger
}

func newServer(cfg *config.Config, logger *slog.Logger) *server {
	s := &server{logger: logger}
	s.cfg.Store(cfg)
	return s
}

func (s *server) setConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
}

func (s *server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.logRequests,
	)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/functions", s.handleFunctions)
	r.Post("/eval", s.handleEval)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("took", time.Since(start)),
		)
	})
}

type evalRequest struct {
	Expression string             `json:"expression"`
	Variables  map[string]float64 `json:"variables,omitempty"`
}

type evalResponse struct {
	// Value is a number, or a string for NaN and infinities, which JSON
	// cannot represent.
	Value  any    `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (s *server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req evalRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, evalResponse{Error: "invalid request: " + err.Error()})
		return
	}

	cfg := *s.cfg.Load()
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		// Prefer the client's languages, then the configured one.
		cfg.Language = lang + "," + cfg.Language + ";q=0.01"
	}
	e, err := newEngine(&cfg, s.logger)
	if err != nil {
		s.logger.Error("couldn't create engine", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, evalResponse{Error: err.Error()})
		return
	}
	for name, v := range req.Variables {
		if err := assign(e, name, v); err != nil {
			writeError(w, err)
			return
		}
	}
	v, err := e.Eval(req.Expression)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evalResponse{Value: jsonNumber(v)})
}

func (s *server) handleFunctions(w http.ResponseWriter, _ *http.Request) {
	cfg := s.cfg.Load()
	set, err := mathfuncs.Preset(cfg.Preset, cfg.Precision)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, evalResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preset": cfg.Preset, "functions": mathfuncs.Names(set)})
}

// writeError reports an evaluation error. Failures of the expression are
// the client's fault; anything else is the server's.
func writeError(w http.ResponseWriter, err error) {
	var e *exevalator.Error
	if !errors.As(err, &e) {
		writeJSON(w, http.StatusInternalServerError, evalResponse{Error: err.Error()})
		return
	}
	status := http.StatusUnprocessableEntity
	if e.Reason == exevalator.UnexpectedError {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, evalResponse{Error: e.Error(), Reason: e.Reason.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonNumber(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return v
}

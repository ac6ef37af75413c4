package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/timclausendev-web/tersejson-sub001/cmd/terse-demo/api"
	"github.com/timclausendev-web/tersejson-sub001/pkg/config"
	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/transport"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr    string
	DBPath  string
	Version string

	// Codec holds the producer settings.
	Codec config.Config
}

// Server is the HTTP server of the demo.
type Server struct {
	config   ServerConfig
	mux      *http.ServeMux
	server   *http.Server
	store    *api.Store
	codec    *transport.Codec
	logger   *slog.Logger
	closeRec func() error
}

// NewServer creates a new server with the given configuration.
func NewServer(cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := api.NewStore(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// The store always records; the config may add a file, slog or census.
	extra, closeRec, err := cfg.Codec.Recorder(logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	opts, err := cfg.Codec.CodecOptions(metrics.NewMultiRecorder(store, extra), logger)
	if err != nil {
		store.Close()
		closeRec()
		return nil, err
	}

	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		store:    store,
		codec:    transport.New(opts...),
		logger:   logger,
		closeRec: closeRec,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.mux,
	}

	return s, nil
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/info", s.handleInfo)

	s.mux.HandleFunc("GET /api/v1/users", s.handleUsers)

	// Orders come from a handler that knows nothing about terse; the
	// middleware rewrites its output.
	s.mux.Handle("GET /api/v1/orders", s.codec.Middleware(http.HandlerFunc(handleOrders)))

	s.mux.HandleFunc("GET /api/v1/metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /api/v1/metrics/summary", s.handleSummary)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	v := s.config.Version
	if v == "" {
		v = "dev"
	}

	resp := map[string]string{
		"status":  "ok",
		"version": v,
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleInfo describes the codec configuration.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountEvents()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := struct {
		FormatVersions  string `json:"formatVersions"`
		Pattern         string `json:"pattern"`
		MinKeyLength    int    `json:"minKeyLength"`
		MinPayloadBytes int    `json:"minPayloadBytes"`
		RecordedEvents  int    `json:"recordedEvents"`
	}{
		FormatVersions:  version.HeaderValue(),
		Pattern:         s.config.Codec.Pattern,
		MinKeyLength:    s.config.Codec.MinKeyLength,
		MinPayloadBytes: s.config.Codec.MinPayloadBytes,
		RecordedEvents:  count,
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleUsers returns ?count= sample users (default 25).
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "count", 25)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, api.SampleUsers(n))
}

// handleOrders writes ?count= sample orders (default 25) as plain JSON.
func handleOrders(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "count", 25)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := gojson.Marshal(api.SampleOrders(n))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

// handleMetrics returns the most recent events, optionally for one
// ?endpoint=.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	events, err := s.store.RecentEvents(limit, r.URL.Query().Get("endpoint"))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	views := make([]api.EventView, len(events))
	for i, e := range events {
		views[i] = api.ViewOf(e)
	}
	s.writeJSON(w, r, http.StatusOK, views)
}

// handleSummary returns per-endpoint totals.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if summary == nil {
		summary = []api.EndpointSummary{}
	}
	s.writeJSON(w, r, http.StatusOK, summary)
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close releases the store and any metrics sink.
func (s *Server) Close() error {
	err := s.closeRec()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// writeJSON writes a response, terse when the consumer asked for it.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := s.codec.WriteJSON(w, r, status, data); err != nil {
		s.logger.Error("failed to write response",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}

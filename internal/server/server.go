// Package server exposes the satellite's live status over HTTP for
// debugging and monitoring: a health check, a JSON snapshot, recent mode
// transitions, and a WebSocket feed.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/bridge"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/events"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// Status is the JSON snapshot served at /status and pushed over /ws.
type Status struct {
	Mode      string            `json:"mode"`
	ElapsedMs int64             `json:"elapsed_ms"`
	Source    bridge.Status     `json:"source"`
	Version   types.VersionInfo `json:"version"`
	UptimeS   int64             `json:"uptime_s"`
}

// Server serves the satellite status endpoints.
type Server struct {
	machine         *state.Machine
	bridge          *bridge.Bridge
	versionInfo     func() types.VersionInfo
	transitionsPath string // empty disables /transitions
	started         time.Time
}

// New returns a status server over the shared machine and bridge.
func New(machine *state.Machine, b *bridge.Bridge, versionInfo func() types.VersionInfo, transitionsPath string) *Server {
	return &Server{
		machine:         machine,
		bridge:          b,
		versionInfo:     versionInfo,
		transitionsPath: transitionsPath,
		started:         time.Now(),
	}
}

// Routes returns an [http.Handler] with all status routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/transitions", s.handleTransitions)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start begins serving on the given port. Returns the *http.Server for
// graceful shutdown.
func (s *Server) Start(port int) *http.Server {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting status server", "addr", addr)

	srv := &http.Server{Addr: addr, Handler: s.Routes()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("status server error", "error", err)
		}
	}()
	return srv
}

func (s *Server) snapshot() Status {
	mode, elapsed := s.machine.Current()
	return Status{
		Mode:      mode.String(),
		ElapsedMs: elapsed.Milliseconds(),
		Source:    s.bridge.Status(),
		Version:   s.versionInfo(),
		UptimeS:   int64(time.Since(s.started).Seconds()),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Debug("health response write failed", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshot())
}

// handleTransitions serves the most recent mode transitions from the
// transition log, newest first.
func (s *Server) handleTransitions(w http.ResponseWriter, r *http.Request) {
	if s.transitionsPath == "" {
		http.Error(w, "transition log not configured", http.StatusNotFound)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			http.Error(w, "limit must be 1-1000", http.StatusBadRequest)
			return
		}
		limit = n
	}

	transitions, err := events.ReadLast(s.transitionsPath, limit)
	if err != nil {
		slog.Error("failed to read transition log", "error", err)
		http.Error(w, "failed to read transition log", http.StatusInternalServerError)
		return
	}
	writeJSON(w, transitions)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

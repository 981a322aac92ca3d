// Package health serves liveness, readiness and run status for the watch
// command, and mounts the metrics handler next to them.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-ev/internal/service"
)

// DatabasePinger is satisfied by the result database when the Postgres sink is enabled.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// RunReporter exposes the outcome of the most recent scoring run.
type RunReporter interface {
	LastRun() (time.Time, error)
	LastSummary() *service.RunSummary
}

// StatusResponse is returned by /health and /live
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time,omitempty"`
}

// RunReport describes the last scoring run
type RunReport struct {
	State      string `json:"state"`
	RunID      string `json:"run_id,omitempty"`
	At         string `json:"at,omitempty"`
	Events     int    `json:"events"`
	Degenerate int    `json:"degenerate"`
	Error      string `json:"error,omitempty"`
}

// ReadyResponse is returned by /ready
type ReadyResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
	LastRun *RunReport        `json:"last_run,omitempty"`
}

// Config holds the health server wiring. Only ServiceName is required.
type Config struct {
	ServiceName    string
	Version        string
	Port           int
	Logger         *logrus.Logger
	DB             DatabasePinger
	Runs           RunReporter
	MetricsHandler http.Handler
	MetricsPath    string
}

// Server answers probes for a long-running scoring process.
type Server struct {
	cfg   Config
	ready atomic.Bool
	http  *http.Server
}

// NewServer applies defaults to cfg and builds the server without listening.
func NewServer(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Server{cfg: cfg}
}

// SetReady flips readiness, normally after the first scoring run.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports the readiness flag
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the probe router
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.MetricsHandler != nil {
		mux.Handle(s.cfg.MetricsPath, s.cfg.MetricsHandler)
	}
	return mux
}

// Start listens in the background. The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log := s.cfg.Logger.WithFields(logrus.Fields{"addr": addr, "service": s.cfg.ServiceName})
	log.Info("Probe server listening")

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Probe server stopped unexpectedly")
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.WithError(err).Warn("Probe server shutdown failed")
		}
	}()
	return nil
}

// Shutdown drains open connections for up to five seconds
func (s *Server) Shutdown() error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Service: s.cfg.ServiceName})
}

// handleReady fails until the first run completes and while the database is
// unreachable. A failed run is reported in last_run but keeps the process ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Checks:  map[string]string{"scoring": "ok"},
	}
	if !s.IsReady() {
		resp.Checks["scoring"] = "warming_up"
		resp.Status = "not_ready"
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			resp.Checks["database"] = "error: " + err.Error()
			resp.Status = "not_ready"
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if s.cfg.Runs != nil {
		resp.LastRun = report(s.cfg.Runs)
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func report(runs RunReporter) *RunReport {
	at, err := runs.LastRun()
	if at.IsZero() {
		return &RunReport{State: "pending"}
	}
	rep := &RunReport{State: "succeeded", At: at.Format(time.RFC3339)}
	if err != nil {
		rep.State = "failed"
		rep.Error = err.Error()
		return rep
	}
	if sum := runs.LastSummary(); sum != nil {
		rep.RunID = sum.RunID.String()
		rep.Events = sum.Events
		rep.Degenerate = sum.Degenerate
	}
	return rep
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

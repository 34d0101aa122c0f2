package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-dev/lumen/pkg/assets"
	"github.com/lumen-dev/lumen/pkg/runtime"
	"github.com/lumen-dev/lumen/pkg/shell"
)

// ServerConfig configures the devtools server.
type ServerConfig struct {
	// Addr is the listen address, e.g. "localhost:3939".
	Addr string

	// Scheduler is the runtime whose component tree is exposed.
	Scheduler *runtime.Scheduler

	// Manager exposes window state, optional.
	Manager *shell.Manager

	// Resolver is invalidated when watched assets change, optional.
	Resolver *assets.Resolver

	// Watcher feeds asset-change events, optional.
	Watcher *Watcher

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Server is the devtools HTTP server.
type Server struct {
	config ServerConfig
	logger *slog.Logger
	events *EventServer
	http   *http.Server
}

// NewServer creates a devtools server. It registers an OnFlush hook on
// the scheduler so flush summaries stream to connected clients.
func NewServer(config ServerConfig) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &Server{
		config: config,
		logger: config.Logger.With("component", "devtools"),
		events: NewEventServer(),
	}
	s.http = &http.Server{
		Addr:    config.Addr,
		Handler: s.routes(),
	}

	if config.Scheduler != nil {
		config.Scheduler.OnFlush(s.events.NotifyFlush)
	}
	if config.Watcher != nil {
		config.Watcher.OnChange(s.assetChanged)
	}
	return s
}

// routes builds the HTTP router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/api/tree", s.handleTree)
	r.Get("/api/signals", s.handleSignals)
	r.Get("/api/windows", s.handleWindows)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.events.HandleWebSocket)

	return r
}

// instanceInfo is the JSON shape of one mounted component.
type instanceInfo struct {
	ID       string `json:"id"`
	Parent   string `json:"parent,omitempty"`
	Depth    int    `json:"depth"`
	Dirty    bool   `json:"dirty"`
	Disposed bool   `json:"disposed"`
}

// handleTree returns every mounted instance, parents before children.
func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	var infos []instanceInfo
	if s.config.Scheduler != nil {
		for _, inst := range s.config.Scheduler.Instances() {
			info := instanceInfo{
				ID:       inst.InstanceID,
				Depth:    inst.Depth(),
				Dirty:    inst.IsDirty(),
				Disposed: inst.IsDisposed(),
			}
			if inst.Parent != nil {
				info.Parent = inst.Parent.InstanceID
			}
			infos = append(infos, info)
		}
	}
	writeJSON(w, map[string]any{"instances": infos})
}

// slotInfo is the JSON shape of one instance's hook state.
type slotInfo struct {
	Instance string   `json:"instance"`
	Slots    []string `json:"slots"`
}

// handleSignals returns the hook slots held by each mounted instance,
// in call order.
func (s *Server) handleSignals(w http.ResponseWriter, _ *http.Request) {
	var infos []slotInfo
	if s.config.Scheduler != nil {
		for _, inst := range s.config.Scheduler.Instances() {
			kinds := inst.Owner.SlotKinds()
			slots := make([]string, len(kinds))
			for i, k := range kinds {
				slots[i] = k.String()
			}
			infos = append(infos, slotInfo{Instance: inst.InstanceID, Slots: slots})
		}
	}
	writeJSON(w, map[string]any{"signals": infos})
}

// windowInfo is the JSON shape of one open window.
type windowInfo struct {
	Handle    shell.WindowHandle `json:"handle"`
	X         int                `json:"x"`
	Y         int                `json:"y"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Maximized bool               `json:"maximized"`
	Minimized bool               `json:"minimized"`
}

func (s *Server) handleWindows(w http.ResponseWriter, _ *http.Request) {
	var infos []windowInfo
	if s.config.Manager != nil {
		for handle, state := range s.config.Manager.AllStates() {
			infos = append(infos, windowInfo{
				Handle:    handle,
				X:         state.X,
				Y:         state.Y,
				Width:     state.Width,
				Height:    state.Height,
				Maximized: state.Maximized,
				Minimized: state.Minimized,
			})
		}
	}
	writeJSON(w, map[string]any{"windows": infos})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// assetChanged invalidates the resolver entry and notifies clients.
func (s *Server) assetChanged(path string) {
	s.logger.Debug("asset changed", "path", path)
	if s.config.Resolver != nil {
		s.config.Resolver.Invalidate(path)
	}
	s.events.NotifyAsset(path)
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Events returns the WebSocket event stream.
func (s *Server) Events() *EventServer {
	return s.events
}

// Run serves until the context ends, then shuts down gracefully. The
// watcher, when configured, runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	if s.config.Watcher != nil {
		go func() {
			if err := s.config.Watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devtools listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.events.Close()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

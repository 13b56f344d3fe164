// Package server exposes a running desktop over HTTP.
//
// Handlers never touch the desktop directly: every read and mutation is
// posted to the dispatch loop with [timer.Loop.Do], so HTTP requests
// interleave with timer expirations exactly like pointer events do.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/plist"
	"github.com/matzehuels/dockworks/pkg/state"
	"github.com/matzehuels/dockworks/pkg/store"
	"github.com/matzehuels/dockworks/pkg/timer"
)

// Options configures a [Server].
type Options struct {
	Loop    *timer.Loop
	Desktop *dock.Desktop
	// Saver persists the session on POST /save and on [Server.Save].
	// Nil disables saving.
	Saver  *store.Saver
	Logger *log.Logger
	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration
}

// Server routes API requests onto the dispatch loop.
type Server struct {
	loop    *timer.Loop
	desk    *dock.Desktop
	logger  *log.Logger
	timeout time.Duration

	// saveMu serializes store writes; the Saver keeps the last hash.
	saveMu sync.Mutex
	saver  *store.Saver
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		loop:    opts.Loop,
		desk:    opts.Desktop,
		saver:   opts.Saver,
		logger:  opts.Logger,
		timeout: opts.Timeout,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	return s
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/docks", func(r chi.Router) {
		r.Get("/", s.handleListDocks)
		r.Get("/{dockID}", s.handleGetDock)
		r.Post("/{dockID}/icons", s.handleAddIcon)
		r.Post("/{dockID}/compact", s.handleCompact)
	})
	r.Route("/icons/{iconID}", func(r chi.Router) {
		r.Delete("/", s.handleRemoveIcon)
		r.Post("/move", s.handleMoveIcon)
		r.Post("/omnipresent", s.handleOmnipresent)
		r.Post("/launch", s.handleLaunch)
	})
	r.Post("/drawers", s.handleAddDrawer)
	r.Delete("/drawers/{dockID}", s.handleRemoveDrawer)
	r.Post("/workspaces/{n}", s.handleChangeWorkspace)
	r.Post("/save", s.handleSave)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// do runs f on the dispatch loop.
func (s *Server) do(ctx context.Context, f func(d *dock.Desktop) error) error {
	return s.loop.Do(ctx, func() error { return f(s.desk) })
}

// Save writes the current session through the Saver. It reports whether
// anything changed since the previous save.
func (s *Server) Save(ctx context.Context) (bool, error) {
	if s.saver == nil {
		return false, nil
	}
	var doc *plist.Dict
	err := s.do(ctx, func(d *dock.Desktop) error {
		var err error
		doc, err = state.SaveSession(d)
		return err
	})
	if err != nil {
		return false, err
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.saver.Save(ctx, doc)
}

package livereload

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/htmldiff"
	"github.com/vango-dev/htmldiff/internal/config"
	"github.com/vango-dev/htmldiff/internal/errors"
)

// Server is the live-reload HTTP server: it serves the static HTML tree
// rooted at cfg.RootPath(), watches cfg.WatchPaths() for changes, and
// pushes diffed patches (or a full reload) to every connected browser
// over /_htmldiff/reload.
type Server struct {
	cfg     *config.Config
	cache   *Cache
	socket  *Socket
	watcher *Watcher
	logger  *slog.Logger

	httpServer *http.Server
	mu         sync.Mutex
	running    bool
}

// NewServer builds a Server from cfg. Routes are rendered once when Start
// runs (seeding the cache) and again on every watch event.
func NewServer(cfg *config.Config) *Server {
	watcher, _ := NewWatcher(WatcherConfig{
		Paths:    cfg.WatchPaths(),
		Ignore:   cfg.Ignore,
		Debounce: time.Duration(cfg.DebounceMs) * time.Millisecond,
	})
	matching := htmldiff.MatchingConfig{
		SimilarityThreshold: cfg.Matching.SimilarityThreshold,
		MinHeight:           cfg.Matching.MinHeight,
	}
	return &Server{
		cfg:     cfg,
		cache:   NewCache(htmldiff.WithMatchingConfig(matching)),
		socket:  NewSocket(),
		watcher: watcher,
		logger:  slog.Default(),
	}
}

// WithLogger overrides the server's logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Start renders every known route once (seeding the cache), wires the
// watcher to re-diff on change, and serves HTTP until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if _, err := os.Stat(s.cfg.RootPath()); err != nil {
		return errors.New("E041").WithDetail(s.cfg.RootPath()).Wrap(err)
	}

	for _, route := range s.discoverRoutes() {
		if html, err := s.renderRoute(route); err == nil {
			s.cache.Diff(route, html) // seeds the cache; first call is always Reload, discarded
		}
	}

	s.watcher.OnChange(func(path string) { s.handleChange(ctx, path) })
	if err := s.watcher.Start(); err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", s.handleHealthz)
	if s.cfg.Metrics.Enabled {
		router.Get(s.cfg.Metrics.Path, promhttp.Handler().ServeHTTP)
	}
	router.Get("/_htmldiff/reload", s.socket.HandleWebSocket)
	router.Get("/*", s.handleStatic)

	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errors.New("E040").WithDetail(s.cfg.Address()).Wrap(err)
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Address(),
		Handler: router,
	}

	s.logger.Info("livereload: serving", "url", s.cfg.URL(), "root", s.cfg.RootPath())
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the watcher, closes all sockets, and shuts down the HTTP
// server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	s.watcher.Stop()
	s.socket.Close()
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleStatic serves a file from cfg.RootPath(), injecting the
// live-reload client script into HTML responses.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Path
	path := s.routeToPath(route)

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".html") {
		html := injectClientScript(string(data))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	http.ServeFile(w, r, path)
}

// handleChange reacts to a watcher event by re-rendering every known
// route and broadcasting whatever each one's diff produces.
func (s *Server) handleChange(ctx context.Context, changedPath string) {
	s.logger.Debug("livereload: change detected", "path", changedPath)

	for _, route := range s.discoverRoutes() {
		html, err := s.renderRoute(route)
		if err != nil {
			ve := errors.Newf(errors.CategoryLiveReload, "rendering %s: %v", route, err)
			s.socket.NotifyError(ve.FormatCompact())
			s.logger.Warn("livereload: render failed", "route", route, "err", err)
			continue
		}

		start := time.Now()
		result := traceDiff(ctx, route, func(context.Context) Result {
			return s.cache.Diff(route, html)
		})
		Metrics().observeDiff(start, result)

		switch result.Kind {
		case ResultPatches:
			s.socket.NotifyPatches(result.Route, result.Patches)
			s.logger.Info("livereload: patched", "route", route, "patches", len(result.Patches))
		case ResultReload:
			s.socket.NotifyReload()
			s.logger.Info("livereload: reloaded", "route", route)
		case ResultNone:
			// unchanged; nothing to send
		}
	}
}

// discoverRoutes walks cfg.RootPath() for *.html files and maps each to
// its served route ("index.html" -> "/").
func (s *Server) discoverRoutes() []string {
	var routes []string
	root := s.cfg.RootPath()
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		route := "/" + filepath.ToSlash(rel)
		if strings.HasSuffix(route, "/index.html") {
			route = strings.TrimSuffix(route, "index.html")
		}
		routes = append(routes, route)
		return nil
	})
	return routes
}

func (s *Server) renderRoute(route string) (string, error) {
	data, err := os.ReadFile(s.routeToPath(route))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Server) routeToPath(route string) string {
	route = strings.TrimPrefix(route, "/")
	if route == "" || strings.HasSuffix(route, "/") {
		route += "index.html"
	}
	return filepath.Join(s.cfg.RootPath(), filepath.FromSlash(route))
}

func injectClientScript(html string) string {
	if idx := strings.LastIndex(html, "</body>"); idx != -1 {
		return html[:idx] + ClientScript + html[idx:]
	}
	return html + ClientScript
}

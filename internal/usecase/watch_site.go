package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mxmul/microsite/internal/config"
)

const rebuildQuietWindow = 300 * time.Millisecond

// WatchService rebuilds the site whenever a source file changes. A failed
// rebuild keeps the previous dist output and the loop alive; only watcher
// setup errors are fatal.
type WatchService struct {
	cfg   *config.Config
	build *BuildService
	cli   CLIOutput
}

func NewWatchService(cfg *config.Config, build *BuildService, cliOut CLIOutput) *WatchService {
	return &WatchService{cfg: cfg, build: build, cli: cliOut}
}

// Watch runs the initial build, then blocks rebuilding on changes until ctx
// is cancelled. When serveAddr is non-empty, dist is also served over HTTP.
func (s *WatchService) Watch(ctx context.Context, serveAddr string) error {
	if err := s.build.BuildSite(ctx); err != nil {
		s.cli.PrintError("Initial build failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The site root covers the pages tree, the public tree, the global
	// entry, and the shell component. Output dirs are filtered per event.
	if err := addDirsRecursive(watcher, s.cfg.Root); err != nil {
		return err
	}

	var srv *http.Server
	if serveAddr != "" {
		srv, err = s.serveDist(serveAddr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	rebuildReq, trigger := newRebuildDebouncer()
	go s.rebuildWorker(ctx, rebuildReq)

	s.cli.PrintStep("👀", "Watching %s for changes", s.cfg.PagesPath())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (s *WatchService) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if s.shouldIgnore(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("file change", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

// shouldIgnore filters build output, the work directory, hidden files, and
// editor temp files: rebuilding on our own writes would loop forever.
func (s *WatchService) shouldIgnore(path string) bool {
	for _, dir := range []string{s.cfg.DistPath(), s.cfg.WorkPath()} {
		if abs, err := filepath.Abs(dir); err == nil {
			if absPath, err := filepath.Abs(path); err == nil && strings.HasPrefix(absPath, abs+string(filepath.Separator)) {
				return true
			}
		}
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") {
		return true
	}
	return false
}

// newRebuildDebouncer coalesces event bursts: the timer restarts on every
// trigger and fires once the quiet window elapses.
func newRebuildDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildQuietWindow, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// rebuildWorker serializes rebuilds. A change arriving mid-build queues
// exactly one follow-up run.
func (s *WatchService) rebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-rebuildReq:
			if !ok {
				return
			}
			mu.Lock()
			if running {
				pending = true
				mu.Unlock()
				continue
			}
			running = true
			mu.Unlock()

			s.cli.PrintStep("⚡", "Change detected; rebuilding")
			if err := s.build.BuildSite(ctx); err != nil {
				s.cli.PrintError("Rebuild failed: %v", err)
			}

			mu.Lock()
			running = false
			if pending {
				pending = false
				mu.Unlock()
				select {
				case rebuildReq <- struct{}{}:
				default:
				}
			} else {
				mu.Unlock()
			}
		}
	}
}

// serveDist serves the built site with clean-URL fallbacks: /blog/hello
// resolves to blog/hello.html.
func (s *WatchService) serveDist(addr string) (*http.Server, error) {
	dist := s.cfg.DistPath()
	fileServer := http.FileServer(http.Dir(dist))

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		clean := strings.TrimSuffix(r.URL.Path, "/")
		if clean == "" {
			clean = "/index"
		}
		if filepath.Ext(clean) == "" {
			candidate := filepath.Join(dist, filepath.FromSlash(clean)+".html")
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server stopped", "error", err)
		}
	}()
	s.cli.PrintStep("🌐", "Serving %s at http://%s", dist, ln.Addr())
	return srv, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

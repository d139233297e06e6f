package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"cytosight/csvexport/pkg/telemetry/logging"

	"github.com/fsnotify/fsnotify"
)

var (
	// ErrAlreadyRunning is returned by Watch when the watcher is running.
	ErrAlreadyRunning = errors.New("watcher already running")

	// ErrFinished is returned by Watch once an earlier Watch has returned.
	ErrFinished = errors.New("watcher already finished")
)

// Config contains configuration for the file watcher.
type Config struct {
	// Path is a document file or a directory of documents.
	Path string

	// Debounce is the quiet period before a change is reported.
	// Default: 250ms
	Debounce time.Duration

	// Extensions filters documents when Path is a directory. Ignored when
	// Path is a file.
	Extensions []string

	// SkipHidden ignores dot files.
	SkipHidden bool
}

// FileWatcher reports changes to dataset documents.
//
// A file Path is watched through its parent directory so editors that
// save by rename keep triggering events.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   Config
	debounce *Debouncer

	// target is the cleaned file path when Config.Path is a file.
	target string

	mu       sync.Mutex
	running  bool
	finished bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopped  sync.Once
}

// NewFileWatcher creates a watcher. Path must exist.
func NewFileWatcher(cfg Config, logger *slog.Logger) (*FileWatcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch %q: %w", cfg.Path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		logger:   logging.Component(logger, "watch"),
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if !info.IsDir() {
		fw.target = filepath.Clean(cfg.Path)
	}
	return fw, nil
}

// Watch blocks until ctx is done or Stop is called, calling onChange
// with the changed path once per quiet period. onChange errors are
// logged; watching continues. A FileWatcher watches once: later calls
// return ErrFinished.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(ctx context.Context, path string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	if fw.finished {
		fw.mu.Unlock()
		return ErrFinished
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.finished = true
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addPaths(); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !fw.shouldProcess(event) {
				continue
			}

			fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

			name := event.Name
			fw.debounce.Trigger(func() {
				if err := onChange(ctx, name); err != nil {
					fw.logger.Error("change handler failed", "path", name, "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// IsRunning reports whether Watch is active.
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

// Stop stops Watch and releases the fsnotify watcher. It is safe to call
// more than once and before Watch.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopped.Do(func() {
		fw.mu.Lock()
		running := fw.running
		fw.mu.Unlock()

		close(fw.stopCh)
		if running {
			<-fw.doneCh
		}
		fw.debounce.Stop()
		if cerr := fw.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

func (fw *FileWatcher) addPaths() error {
	if fw.target != "" {
		return fw.watcher.Add(filepath.Dir(fw.target))
	}

	root := fw.config.Path
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.config.SkipHidden && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if fw.target != "" {
		return filepath.Clean(event.Name) == fw.target
	}
	if fw.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return hasExtension(event.Name, fw.config.Extensions)
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

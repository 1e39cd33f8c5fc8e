package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event outcomes reported through the config's EventHook.
const (
	OutcomeIgnored   = "ignored"
	OutcomeDebounced = "debounced"
)

// FileWatcher watches CSV files for changes and triggers revalidation.
// It implements per-file debouncing to prevent validation storms while
// a file is being written.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	// State
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the file or directory to watch
	Path string

	// DebounceInterval is the time to wait before revalidating after
	// detecting file changes (default: 250ms)
	DebounceInterval time.Duration

	// Extensions is the list of file extensions to watch (e.g., ".csv", ".tsv")
	Extensions []string

	// SkipHidden controls whether to skip hidden files
	SkipHidden bool

	// EventHook, if set, is called with the outcome of every filtered
	// or coalesced filesystem event.
	EventHook func(outcome string)
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		DebounceInterval: 250 * time.Millisecond,
		Extensions:       []string{".csv", ".tsv"},
		SkipHidden:       true,
	}
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(config *Config, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 250 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	return fw, nil
}

// Watch starts watching for file changes and calls onChange with the path
// of each settled file. This is a blocking operation that runs until the
// context is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
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
				return fmt.Errorf("watcher events channel closed")
			}

			if !fw.shouldProcessEvent(event) {
				fw.emit(OutcomeIgnored)
				continue
			}

			fw.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			fw.emit(OutcomeDebounced)

			path := event.Name
			fw.debounce.Trigger(path, func() {
				fw.logger.Info("revalidating changed file", "path", path)

				if err := onChange(path); err != nil {
					fw.logger.Error("revalidation failed",
						"path", path,
						"error", err,
					)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			fw.logger.Error("file watcher error", "error", err)
			// Continue watching despite errors
		}
	}
}

// Stop stops the file watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	return nil
}

// WatchedFiles returns the files under the watched path that match the
// configured extensions. For a single-file path it returns that file.
func (fw *FileWatcher) WatchedFiles() ([]string, error) {
	isDir, err := isDirectory(fw.config.Path)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return []string{fw.config.Path}, nil
	}

	var files []string
	err = filepath.Walk(fw.config.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != fw.config.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}
		if fw.hasValidExtension(strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// emit reports an event outcome through the configured hook.
func (fw *FileWatcher) emit(outcome string) {
	if fw.config.EventHook != nil {
		fw.config.EventHook(outcome)
	}
}

// addPath adds a file or directory to the watcher.
func (fw *FileWatcher) addPath(path string) error {
	isDir, err := isDirectory(path)
	if err != nil {
		return err
	}

	if isDir {
		return fw.addDirectory(path)
	}

	return fw.watcher.Add(path)
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Only watch directories
		if info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			fw.logger.Debug("watching directory", "path", path)
		}

		return nil
	})
}

// shouldProcessEvent determines if an event should trigger revalidation.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	// A removed file has nothing left to validate.
	if event.Op&fsnotify.Remove == fsnotify.Remove {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !fw.hasValidExtension(ext) {
		return false
	}

	if fw.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}

	return true
}

// hasValidExtension checks if a file extension should be watched.
func (fw *FileWatcher) hasValidExtension(ext string) bool {
	for _, validExt := range fw.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// Debouncer coalesces rapid events per key and triggers the callback only
// after a quiet period.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
	}
}

// Trigger schedules the callback for the given key. The callback runs after
// the debounce interval if no new events arrive for the same key.
func (d *Debouncer) Trigger(key string, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		delete(d.timers, key)
		d.mu.Unlock()

		if !stopped {
			callback()
		}
	})
}

// Stop stops the debouncer and cancels any pending callbacks.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Helper function to check if path is a directory
func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/utopialog/internal/logger"
)

const defaultReloadDebounce = 250 * time.Millisecond

// PolicyWatcher reloads the policy file into a PolicyStore whenever it
// changes on disk. A file that fails to parse or validate is logged and the
// previous policy stays active.
type PolicyWatcher struct {
	path     string
	store    *PolicyStore
	log      *logger.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	reloads int
}

// NewPolicyWatcher watches path. The parent directory is watched rather than
// the file itself so editors that replace the file on save are still seen.
func NewPolicyWatcher(path string, store *PolicyStore, log *logger.Logger) (*PolicyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PolicyWatcher{
		path:     filepath.Clean(path),
		store:    store,
		log:      log,
		watcher:  w,
		debounce: defaultReloadDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. It returns once the directory watch
// is registered.
func (pw *PolicyWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	if pw.running {
		pw.mu.Unlock()
		return nil
	}
	pw.running = true
	pw.mu.Unlock()

	if err := pw.watcher.Add(filepath.Dir(pw.path)); err != nil {
		pw.mu.Lock()
		pw.running = false
		pw.mu.Unlock()
		return err
	}
	pw.log.Info("watching policy file", "path", pw.path)

	go pw.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the watcher.
func (pw *PolicyWatcher) Stop() {
	pw.mu.Lock()
	wasRunning := pw.running
	pw.running = false
	pw.mu.Unlock()

	if wasRunning {
		close(pw.stopCh)
		<-pw.doneCh
	}
	if err := pw.watcher.Close(); err != nil {
		pw.log.Warn("close policy watcher", "error", err)
	}
}

// Reloads reports how many times the policy was successfully reloaded.
func (pw *PolicyWatcher) Reloads() int {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.reloads
}

func (pw *PolicyWatcher) run(ctx context.Context) {
	defer close(pw.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pw.stopCh:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(pw.debounce)
			} else {
				timer.Reset(pw.debounce)
			}
			fire = timer.C
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.log.Warn("policy watcher error", "error", err)
		case <-fire:
			fire = nil
			pw.reload()
		}
	}
}

func (pw *PolicyWatcher) reload() {
	if _, err := os.Stat(pw.path); err != nil {
		pw.log.Warn("policy file unavailable, keeping previous policy", "path", pw.path, "error", err)
		return
	}
	policy, err := LoadPolicy(pw.path)
	if err != nil {
		pw.log.Warn("policy reload rejected, keeping previous policy", "path", pw.path, "error", err)
		return
	}
	pw.store.Set(policy)

	pw.mu.Lock()
	pw.reloads++
	pw.mu.Unlock()
	pw.log.Info("policy reloaded", "path", pw.path)
}

package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long the file must stay quiet before it is reloaded.
// Editors often save in several writes.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
// Reloaded configs are delivered through Poll; only the newest is kept.
type Watcher struct {
	path    string
	w       *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
}

// Watch starts watching the config file at path. The parent directory is
// watched so editors that save by rename are still picked up.
func Watch(path string) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch: empty config path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	cw := &Watcher{
		path:    abs,
		w:       w,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

func (cw *Watcher) loop() {
	defer close(cw.done)

	// Non-nil while a reload is pending; each event pushes it back.
	var settle <-chan time.Time
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle = time.After(reloadDelay)
		case <-settle:
			settle = nil
			cfg, err := Load(cw.path)
			if err != nil {
				slog.Warn("config reload failed", "path", cw.path, "error", err)
				continue
			}
			cw.publish(cfg)
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}

// publish replaces any undelivered config with cfg.
func (cw *Watcher) publish(cfg *Config) {
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
}

// Poll returns a reloaded config if one is pending. Never blocks.
func (cw *Watcher) Poll() (*Config, bool) {
	if cw == nil {
		return nil, false
	}
	select {
	case cfg := <-cw.updates:
		return cfg, true
	default:
		return nil, false
	}
}

// Close stops watching and waits for the loop to exit.
func (cw *Watcher) Close() error {
	if cw == nil {
		return nil
	}
	err := cw.w.Close()
	<-cw.done
	return err
}

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// Watch reloads the config file whenever it changes on disk and calls
// onChange with the previous and new configuration. Files that fail to
// parse are ignored. Watch blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context, onChange func(old, updated *Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace the file, so watch the directory.
	if err := watcher.Add(m.GetConfigDir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.GetConfigDir(), err)
	}

	log := logger.WithComponent("config")
	name := filepath.Clean(m.configPath)
	debounced := debounce.New(200 * time.Millisecond)

	reload := func() {
		cfg, err := readFile(m.configPath)
		if err != nil {
			log.Warn().Err(err).Str("path", m.configPath).Msg("Ignoring config change")
			return
		}
		m.mu.Lock()
		old := m.config
		m.config = cfg
		m.mu.Unlock()

		log.Info().Str("path", m.configPath).Msg("Config reloaded")
		if old == nil {
			old = Defaults()
		}
		o, n := *old, *cfg
		onChange(&o, &n)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounced(reload)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

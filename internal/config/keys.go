package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bryanchriswhite/WebWallpaper/internal/navurl"
)

// Keys lists the settable configuration keys.
var Keys = []string{
	"url",
	"start_muted",
	"log_level",
	"log_file",
	"user_data_dir",
	"locator_timeout",
	"debug",
	"api.enabled",
	"api.port",
	"hotkeys.toggle",
	"hotkeys.mute",
	"hotkeys.reload",
}

// Value returns the current value of a dotted key.
func (m *Manager) Value(key string) (interface{}, error) {
	v, err := m.Viper()
	if err != nil {
		return nil, err
	}
	key = strings.ToLower(key)
	if !v.IsSet(key) {
		return nil, fmt.Errorf("unknown key %q", key)
	}
	return v.Get(key), nil
}

// SetValue parses value for key, stores it and saves the file.
func (m *Manager) SetValue(key, value string) error {
	cfg := m.Get()

	var err error
	switch strings.ToLower(key) {
	case "url":
		cfg.URL, err = navurl.Parse(value)
	case "start_muted":
		cfg.StartMuted, err = strconv.ParseBool(value)
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(value)
		default:
			err = fmt.Errorf("log level must be debug, info, warn or error")
		}
	case "log_file":
		cfg.LogFile = value
	case "user_data_dir":
		cfg.UserDataDir = value
	case "locator_timeout":
		var d time.Duration
		d, err = time.ParseDuration(value)
		if err == nil && d <= 0 {
			err = fmt.Errorf("timeout must be positive")
		}
		cfg.LocatorTimeout = d
	case "debug":
		cfg.Debug, err = strconv.ParseBool(value)
	case "api.enabled":
		cfg.API.Enabled, err = strconv.ParseBool(value)
	case "api.port":
		var port int
		port, err = strconv.Atoi(value)
		if err == nil && (port <= 0 || port > 65535) {
			err = fmt.Errorf("port out of range")
		}
		cfg.API.Port = port
	case "hotkeys.toggle":
		cfg.Hotkeys.Toggle = value
	case "hotkeys.mute":
		cfg.Hotkeys.Mute = value
	case "hotkeys.reload":
		cfg.Hotkeys.Reload = value
	default:
		return fmt.Errorf("unknown key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return m.Update(cfg)
}

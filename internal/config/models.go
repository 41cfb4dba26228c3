package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/navurl"
)

const (
	appDir = "webwallpaper"

	// DefaultPort is the local control API port.
	DefaultPort = 47811
	// DefaultLocatorTimeout bounds the wait for the shell to spawn the
	// wallpaper host.
	DefaultLocatorTimeout = time.Second
)

// Config represents the persisted settings
type Config struct {
	URL            string        `json:"url" yaml:"url"`
	StartMuted     bool          `json:"start_muted" yaml:"start_muted"`
	LogLevel       string        `json:"log_level" yaml:"log_level"`
	LogFile        string        `json:"log_file" yaml:"log_file"`
	UserDataDir    string        `json:"user_data_dir" yaml:"user_data_dir"`
	LocatorTimeout time.Duration `json:"locator_timeout" yaml:"locator_timeout"`
	Debug          bool          `json:"debug" yaml:"debug"`
	API            APIConfig     `json:"api" yaml:"api"`
	Hotkeys        HotkeyConfig  `json:"hotkeys" yaml:"hotkeys"`
}

// APIConfig represents the local control API configuration
type APIConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Port    int  `json:"port" yaml:"port"`
}

// HotkeyConfig holds the global key combinations, e.g. "Ctrl+Alt+W".
// An empty combination disables that hotkey.
type HotkeyConfig struct {
	Toggle string `json:"toggle" yaml:"toggle"`
	Mute   string `json:"mute" yaml:"mute"`
	Reload string `json:"reload" yaml:"reload"`
}

// Manager handles configuration
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// DefaultPath returns the config file location under the XDG config home
// (%APPDATA% on Windows).
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appDir, "config.yaml"))
}

// Defaults returns the default configuration
func Defaults() *Config {
	return &Config{
		URL:            navurl.DefaultURL,
		StartMuted:     true,
		LogLevel:       "info",
		LogFile:        filepath.Join(xdg.StateHome, appDir, "webwallpaper.log"),
		UserDataDir:    filepath.Join(xdg.DataHome, appDir, "webview"),
		LocatorTimeout: DefaultLocatorTimeout,
		API: APIConfig{
			Enabled: true,
			Port:    DefaultPort,
		},
		Hotkeys: HotkeyConfig{
			Toggle: "Ctrl+Alt+W",
			Mute:   "Ctrl+Alt+M",
			Reload: "Ctrl+Alt+R",
		},
	}
}

// NewManager creates a new configuration manager. A missing file is
// created with defaults; a file that cannot be parsed is left alone and
// the defaults are used. Neither stops startup.
func NewManager(configFile string) (*Manager, error) {
	path := configFile
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	m := &Manager{configPath: path}
	log := logger.WithComponent("config")

	if err := m.load(); err != nil {
		m.config = Defaults()
		if os.IsNotExist(err) {
			log.Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			if err := m.Save(); err != nil {
				log.Warn().Err(err).Msg("Failed to write default config, continuing with defaults")
			}
		} else {
			log.Error().
				Err(err).
				Str("path", m.configPath).
				Msg("Config file unreadable, using defaults")
		}
	}

	log.Info().
		Str("path", m.configPath).
		Str("url", m.config.URL).
		Msg("Config loaded")

	return m, nil
}

// load reads and parses the config file, filling unset fields with
// defaults.
func (m *Manager) load() error {
	cfg, err := readFile(m.configPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults repairs fields an edited file may have blanked.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if u := navurl.Normalize(cfg.URL); u != "" {
		cfg.URL = u
	} else {
		cfg.URL = d.URL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.UserDataDir == "" {
		cfg.UserDataDir = d.UserDataDir
	}
	if cfg.LocatorTimeout <= 0 {
		cfg.LocatorTimeout = d.LocatorTimeout
	}
	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		cfg.API.Port = d.API.Port
	}
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return Defaults()
	}
	cfg := *m.config
	return &cfg
}

// Save saves the current configuration to disk
func (m *Manager) Save() error {
	cfg := m.Get()

	logger.WithComponent("config").Debug().
		Str("path", m.configPath).
		Str("url", cfg.URL).
		Msg("Saving config")

	// Ensure the directory exists
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.WithComponent("config").Error().
			Err(err).
			Str("config_dir", configDir).
			Msg("Failed to create config directory")
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		logger.WithComponent("config").Error().
			Err(err).
			Str("path", m.configPath).
			Msg("Failed to write config")
		return err
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Msg("Config saved successfully")
	return nil
}

// Update replaces the entire configuration
func (m *Manager) Update(cfg *Config) error {
	m.mu.Lock()
	c := *cfg
	m.config = &c
	m.mu.Unlock()
	return m.Save()
}

// GetURL returns the wallpaper address
func (m *Manager) GetURL() string {
	return m.Get().URL
}

// SetURL normalizes raw, persists it and returns the stored value.
func (m *Manager) SetURL(raw string) (string, error) {
	url, err := navurl.Parse(raw)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.config.URL = url
	m.mu.Unlock()
	return url, m.Save()
}

// SetPort sets the control API port
func (m *Manager) SetPort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	m.mu.Lock()
	m.config.API.Port = port
	m.mu.Unlock()
	return m.Save()
}

// GetPort gets the control API port
func (m *Manager) GetPort() int {
	return m.Get().API.Port
}

// SetLogLevel sets the log level
func (m *Manager) SetLogLevel(level string) error {
	m.mu.Lock()
	m.config.LogLevel = level
	m.mu.Unlock()
	return m.Save()
}

// GetLogLevel gets the log level
func (m *Manager) GetLogLevel() string {
	return m.Get().LogLevel
}

// GetConfigPath returns the path to the config file
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetConfigDir returns the config directory path
func (m *Manager) GetConfigDir() string {
	return filepath.Dir(m.configPath)
}

// Viper returns a read-only view of the current configuration keyed by
// dotted yaml paths such as "api.port".
func (m *Manager) Viper() (*viper.Viper, error) {
	data, err := yaml.Marshal(m.Get())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nebula/svcview/internal/logger"
)

// AppName names the config, cache and data directories
const AppName = "svcview"

// Config holds all configuration values
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Inspector InspectorConfig `mapstructure:"inspector"`
	UI        UIConfig        `mapstructure:"ui"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// StorageConfig holds the input history database settings
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// InspectorConfig holds service query settings
type InspectorConfig struct {
	// QueryTimeout bounds each service manager call; zero means no limit
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// UIConfig holds list behaviour settings
type UIConfig struct {
	WrapSelection bool `mapstructure:"wrap_selection"`
	ShowHost      bool `mapstructure:"show_host"`
}

// Manager manages configuration with hot reload support
type Manager struct {
	config *Config
	viper  *viper.Viper
	logger *slog.Logger
	mu     sync.RWMutex

	onReload []func(*Config)
}

// Option adjusts the viper instance before the configuration is read
type Option func(*viper.Viper) error

// WithFlag lets a command line flag override key when it is set
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// NewManager loads configuration. An explicit configPath must exist; with an
// empty path the user config directory and the working directory are
// searched and a missing file is not an error.
func NewManager(configPath string, opts ...Option) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("failed to bind option: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName(AppName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	m := &Manager{
		config: &Config{},
		viper:  v,
		logger: logger.Discard(),
	}

	if err := v.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
				m.reload()
			}
		})
		v.WatchConfig()
	}

	return m, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(cacheDir, AppName, AppName+".log"))
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)

	// Storage defaults
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", filepath.Join(configDir, AppName, AppName+".db"))

	v.SetDefault("inspector.query_timeout", "0s")

	// UI defaults
	v.SetDefault("ui.wrap_selection", false)
	v.SetDefault("ui.show_host", true)
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// File returns the config file in use, or "" when running on defaults
func (m *Manager) File() string {
	return m.viper.ConfigFileUsed()
}

// SetLogger sets where reload problems are reported
func (m *Manager) SetLogger(l *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

// reload applies the values viper has just read and notifies listeners in
// registration order. On error the previous configuration stays in effect.
func (m *Manager) reload() {
	newConfig := &Config{}
	err := m.viper.Unmarshal(newConfig)

	m.mu.Lock()
	log := m.logger
	if err == nil {
		m.config = newConfig
	}
	listeners := append([]func(*Config){}, m.onReload...)
	m.mu.Unlock()

	if err != nil {
		log.Error("failed to reload config", "file", m.File(), "error", err)
		return
	}
	for _, fn := range listeners {
		fn(newConfig)
	}
}

// OnReload registers a callback for configuration changes
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, fn)
}

// LoggerConfig converts the log section for the logger package
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

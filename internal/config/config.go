// Package config resolves rtichat's runtime settings.
//
// Settings are merged by viper from, lowest to highest precedence: built-in
// defaults, an optional config.yaml in the data directory, a .env file in the
// working directory, RTICHAT_* environment variables and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rtiagent/rtichat/internal/errors"
)

// EnvPrefix is the prefix for environment overrides (RTICHAT_BACKEND_URL, ...).
const EnvPrefix = "RTICHAT"

// Defaults
const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultTheme          = "saffron"
	ConfigFileName        = "config.yaml"
	SessionsFileName      = "sessions.json"
)

// Keys understood by viper. Flags are bound to the same names.
const (
	KeyBackendURL     = "backend_url"
	KeyRequestTimeout = "request_timeout"
	KeyDataDir        = "data_dir"
	KeyDownloadDir    = "download_dir"
	KeyTheme          = "theme"
	KeyNotifications  = "notifications"
	KeyDebug          = "debug"
)

// Settings holds the resolved configuration.
type Settings struct {
	BackendURL     string        `mapstructure:"backend_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	DataDir        string        `mapstructure:"data_dir"`
	DownloadDir    string        `mapstructure:"download_dir"`
	Theme          string        `mapstructure:"theme"`
	Notifications  bool          `mapstructure:"notifications"` // Desktop notification when a reply lands unfocused
	Debug          bool          `mapstructure:"debug"`
}

// DefaultDataDir returns ~/.rtichat
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rtichat"), nil
}

// NewViper returns a viper instance with defaults and environment binding set up.
// Callers bind their flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	dataDir, err := DefaultDataDir()
	if err != nil {
		dataDir = ".rtichat"
	}

	v.SetDefault(KeyBackendURL, DefaultBackendURL)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyDataDir, dataDir)
	v.SetDefault(KeyDownloadDir, ".")
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyNotifications, false)
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves Settings from v. A missing .env or config.yaml is not an error.
func Load(v *viper.Viper) (*Settings, error) {
	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.ConfigLoadFailed(".env", err)
	}

	cfgPath := filepath.Join(v.GetString(KeyDataDir), ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.ConfigLoadFailed(cfgPath, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.ConfigLoadFailed(cfgPath, err)
	}
	s.BackendURL = strings.TrimRight(strings.TrimSpace(s.BackendURL), "/")

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.ConfigInvalid(fmt.Sprintf("backend URL %q must be an http(s) URL", s.BackendURL))
	}
	if s.RequestTimeout <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("request timeout must be positive, got %s", s.RequestTimeout))
	}
	if s.DataDir == "" {
		return errors.ConfigInvalid("data directory must not be empty")
	}
	return nil
}

// SessionsPath is where the session store lives.
func (s *Settings) SessionsPath() string {
	return filepath.Join(s.DataDir, SessionsFileName)
}

// LogDir is the directory holding log files.
func (s *Settings) LogDir() string {
	return filepath.Join(s.DataDir, "logs")
}

// SavePreferences writes the settings changed from the TUI into config.yaml in
// dataDir, keeping any other keys already in the file.
func SavePreferences(dataDir, theme string, notifications bool) error {
	path := filepath.Join(dataDir, ConfigFileName)

	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return errors.ConfigLoadFailed(path, err)
		}
	}
	v.Set(KeyTheme, theme)
	v.Set(KeyNotifications, notifications)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.E(errors.Op("config.SavePreferences"), errors.KindIO, err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return errors.E(errors.Op("config.SavePreferences"), errors.KindIO, err)
	}
	return nil
}

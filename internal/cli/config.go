package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "TODOS"
)

// Config keys.
const (
	cfgKeyOwnerID        = "owner_id"
	cfgKeyBaseURL        = "base_url"
	cfgKeyRequestTimeout = "request_timeout"
	cfgKeyLogLevel       = "log_level"
	cfgKeyLogFile        = "log_file"
	cfgKeyDataDir        = "data_dir"
	cfgKeyListenAddr     = "listen_addr"
	cfgKeyServerLatency  = "server_latency"
)

const defaultListenAddr = ":8080"

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# todos configuration
# Every key can also be set with a TODOS_ environment variable
# (for example TODOS_OWNER_ID) or the matching command-line flag.

# Owner whose todo collection is shown. Required.
owner_id: 0

# Collection API.
base_url: http://127.0.0.1:8080
# request_timeout: 10s

# Logging: debug, info, warn, error.
log_level: info
# log_file: /path/to/todos.log

# Data directory for the reference server database and the TUI log.
# data_dir:

# Reference server (todos serve).
listen_addr: ":8080"
# server_latency: 500ms
`

// settings is the effective configuration after flags, environment,
// config.yaml, and defaults are merged.
type settings struct {
	ConfigDir      string
	DataDir        string
	OwnerID        int64
	BaseURL        string
	RequestTimeout time.Duration
	LogLevel       string
	LogFile        string
	ListenAddr     string
	ServerLatency  time.Duration
}

// clientConfig returns the part of s the remote client needs.
func (s settings) clientConfig() types.Config {
	return types.Config{
		OwnerID:        s.OwnerID,
		BaseURL:        s.BaseURL,
		RequestTimeout: s.RequestTimeout,
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and
// a default file on first run. A missing config.yaml is not an error.
// The returned string is data_dir as written in the file, before any
// environment override.
func loadConfig(configDir string) (*viper.Viper, string, error) {
	if err := paths.EnsureDir(configDir); err != nil {
		return nil, "", fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, "", fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyOwnerID, 0)
	v.SetDefault(cfgKeyBaseURL, types.DefaultBaseURL)
	v.SetDefault(cfgKeyRequestTimeout, time.Duration(0))
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyServerLatency, time.Duration(0))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	// data_dir ranks above TODOS_DATA_DIR, so read it before env lookups
	// are enabled.
	configDataDir := v.GetString(cfgKeyDataDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v, configDataDir, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml
// already exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// readSettings extracts and checks the effective settings.
func readSettings(v *viper.Viper, configDir, dataDir string) (settings, error) {
	s := settings{
		ConfigDir:      configDir,
		DataDir:        dataDir,
		OwnerID:        v.GetInt64(cfgKeyOwnerID),
		BaseURL:        v.GetString(cfgKeyBaseURL),
		RequestTimeout: v.GetDuration(cfgKeyRequestTimeout),
		LogLevel:       v.GetString(cfgKeyLogLevel),
		ListenAddr:     v.GetString(cfgKeyListenAddr),
		ServerLatency:  v.GetDuration(cfgKeyServerLatency),
	}

	logFile, err := paths.LogPath(dataDir, v.GetString(cfgKeyLogFile))
	if err != nil {
		return settings{}, fmt.Errorf("resolve log file: %w", err)
	}
	s.LogFile = logFile

	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return settings{}, err
	}
	if s.OwnerID < 0 {
		return settings{}, fmt.Errorf("%s must not be negative: %w", cfgKeyOwnerID, types.ErrOwnerUnset)
	}
	if s.RequestTimeout < 0 {
		return settings{}, types.ErrTimeoutInvalid
	}
	if s.ServerLatency < 0 {
		return settings{}, fmt.Errorf("%s must not be negative", cfgKeyServerLatency)
	}
	return s, nil
}

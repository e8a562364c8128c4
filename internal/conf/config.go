// config.go: settings struct for tonecapture and the functions to load it.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Database backends
const (
	DatabaseSQLite = "sqlite"
	DatabaseMySQL  = "mysql"
)

// Resampler quality profiles
const (
	ResampleFast     = "fast"
	ResampleBalanced = "balanced"
	ResampleBest     = "best"
)

// SQLiteSettings contains settings for the SQLite backend
type SQLiteSettings struct {
	Path string `yaml:"path"` // database file path
}

// MySQLSettings contains settings for the MySQL backend
type MySQLSettings struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DatabaseSettings selects and configures the catalog store
type DatabaseSettings struct {
	Type   string         `yaml:"type"`  // sqlite or mysql
	Debug  bool           `yaml:"debug"` // log every SQL statement at trace level
	SQLite SQLiteSettings `yaml:"sqlite"`
	MySQL  MySQLSettings  `yaml:"mysql"`
	// DeviceCacheTTL bounds how long a device deleted by another process
	// can still be returned by lookups. Zero disables the cache.
	DeviceCacheTTL time.Duration `yaml:"devicecachettl"`
}

// AudioSettings contains settings for the signal pipeline
type AudioSettings struct {
	ResampleQuality      string `yaml:"resamplequality"`      // fast, balanced or best
	OutputBitDepth       int    `yaml:"outputbitdepth"`       // 16 or 24
	MaxParallel          int    `yaml:"maxparallel"`          // concurrent impulse response decodes
	DirectConvolutionMax int    `yaml:"directconvolutionmax"` // kernel length up to which convolution runs in the time domain
}

// Settings contains all configuration options for tonecapture
type Settings struct {
	Debug    bool                 `yaml:"debug"`
	Database DatabaseSettings     `yaml:"database"`
	Audio    AudioSettings        `yaml:"audio"`
	Logging  logger.LoggingConfig `yaml:"logging"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables from the
// global viper instance, where cobra flags are bound.
func Load() (*Settings, error) {
	settings, err := LoadWith(viper.GetViper())
	if err != nil {
		return nil, err
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()

	return settings, nil
}

// LoadWith reads settings through v. When v already has a config file set
// it is used as is; otherwise the default config paths are searched and a
// default config.yaml is written if none exists.
func LoadWith(v *viper.Viper) (*Settings, error) {
	if err := initViper(v); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper sets defaults, environment bindings and reads the config file.
func initViper(v *viper.Viper) error {
	v.SetConfigType("yaml")

	setDefaultConfig(v)

	if err := configureEnvironmentVariables(v); err != nil {
		return err
	}

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("error getting default config paths: %w", err)
		}
		for _, path := range configPaths {
			v.AddConfigPath(path)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(v)
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded config.yaml to the user config
// directory and reads it.
func createDefaultConfig(v *viper.Viper) error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[len(configPaths)-1], "config.yaml")

	defaultConfig, err := getDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil { //nolint:gosec // config is not secret by default
		return fmt.Errorf("error writing default config file: %w", err)
	}

	v.SetConfigFile(configPath)
	return v.ReadInConfig()
}

// getDefaultConfig returns the embedded default config.yaml.
func getDefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded config: %w", err)
	}
	return data, nil
}

// GetSettings returns the settings loaded by the last successful Load
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// MarshalYAML renders settings as YAML with the MySQL password masked.
func (s *Settings) MarshalYAML() (any, error) {
	type plain Settings
	masked := plain(*s)
	if masked.Database.MySQL.Password != "" {
		masked.Database.MySQL.Password = "********"
	}
	return masked, nil
}

// Dump returns the effective settings as YAML
func (s *Settings) Dump() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return string(data), nil
}

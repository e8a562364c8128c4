// env.go - environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envPrefix prefixes every bound environment variable
const envPrefix = "TONECAPTURE"

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // viper config key
	EnvVar    string             // environment variable name
	Validate  func(string) error // optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "TONECAPTURE_DEBUG", validateEnvBool},

		// Store
		{"database.type", "TONECAPTURE_DATABASE_TYPE", validateEnvDatabaseType},
		{"database.debug", "TONECAPTURE_DATABASE_DEBUG", validateEnvBool},
		{"database.sqlite.path", "TONECAPTURE_DATABASE_SQLITE_PATH", nil},
		{"database.mysql.host", "TONECAPTURE_DATABASE_MYSQL_HOST", nil},
		{"database.mysql.port", "TONECAPTURE_DATABASE_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "TONECAPTURE_DATABASE_MYSQL_USERNAME", nil},
		{"database.mysql.password", "TONECAPTURE_DATABASE_MYSQL_PASSWORD", nil},
		{"database.mysql.database", "TONECAPTURE_DATABASE_MYSQL_DATABASE", nil},
		{"database.devicecachettl", "TONECAPTURE_DATABASE_DEVICECACHETTL", validateEnvDuration},

		// Signal pipeline
		{"audio.resamplequality", "TONECAPTURE_AUDIO_RESAMPLEQUALITY", validateEnvResampleQuality},
		{"audio.outputbitdepth", "TONECAPTURE_AUDIO_OUTPUTBITDEPTH", validateEnvBitDepth},
		{"audio.maxparallel", "TONECAPTURE_AUDIO_MAXPARALLEL", validateEnvPositiveInt},

		{"logging.default_level", "TONECAPTURE_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars binds each variable to its key and validates set values
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value: %s", value)
	}
	return nil
}

func validateEnvDatabaseType(value string) error {
	if !slices.Contains([]string{DatabaseSQLite, DatabaseMySQL}, strings.TrimSpace(value)) {
		return fmt.Errorf("must be %q or %q", DatabaseSQLite, DatabaseMySQL)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvResampleQuality(value string) error {
	if !slices.Contains([]string{ResampleFast, ResampleBalanced, ResampleBest}, strings.TrimSpace(value)) {
		return fmt.Errorf("must be one of %s, %s, %s", ResampleFast, ResampleBalanced, ResampleBest)
	}
	return nil
}

func validateEnvBitDepth(value string) error {
	depth, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid bit depth: %w", err)
	}
	if depth != 16 && depth != 24 {
		return fmt.Errorf("bit depth must be 16 or 24, got %d", depth)
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	if !validLogLevel(strings.TrimSpace(value)) {
		return fmt.Errorf("unknown log level %q", value)
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for viper
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return bindEnvVars(v)
}

// conf/validate.go

package conf

import (
	"fmt"
	"slices"

	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateDatabaseSettings(&settings.Database); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateAudioSettings(&settings.Audio); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLoggingSettings(&settings.Logging); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDatabaseSettings(settings *DatabaseSettings) error {
	var errs []error

	switch settings.Type {
	case DatabaseSQLite:
		if settings.SQLite.Path == "" {
			errs = append(errs, errors.ValidationError("database.sqlite.path must be set"))
		}
	case DatabaseMySQL:
		if settings.MySQL.Host == "" {
			errs = append(errs, errors.ValidationError("database.mysql.host must be set"))
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, errors.ValidationError("database.mysql.database must be set"))
		}
		if settings.MySQL.Username == "" {
			errs = append(errs, errors.ValidationError("database.mysql.username must be set"))
		}
		if settings.MySQL.Port < 1 || settings.MySQL.Port > 65535 {
			errs = append(errs, errors.ValidationError(fmt.Sprintf("database.mysql.port %d out of range", settings.MySQL.Port)))
		}
	default:
		errs = append(errs, errors.ValidationError(fmt.Sprintf("database.type %q is not supported", settings.Type)))
	}
	if settings.DeviceCacheTTL < 0 {
		errs = append(errs, errors.ValidationError(fmt.Sprintf("database.devicecachettl must not be negative, got %s", settings.DeviceCacheTTL)))
	}

	return errors.Join(errs...)
}

func validateAudioSettings(settings *AudioSettings) error {
	var errs []error

	if !slices.Contains([]string{ResampleFast, ResampleBalanced, ResampleBest}, settings.ResampleQuality) {
		errs = append(errs, errors.ValidationError(fmt.Sprintf("audio.resamplequality %q is not supported", settings.ResampleQuality)))
	}
	if settings.OutputBitDepth != 16 && settings.OutputBitDepth != 24 {
		errs = append(errs, errors.ValidationError(fmt.Sprintf("audio.outputbitdepth must be 16 or 24, got %d", settings.OutputBitDepth)))
	}
	if settings.MaxParallel < 1 {
		errs = append(errs, errors.ValidationError("audio.maxparallel must be at least 1"))
	}
	if settings.DirectConvolutionMax < 1 {
		errs = append(errs, errors.ValidationError("audio.directconvolutionmax must be at least 1"))
	}

	return errors.Join(errs...)
}

func validateLoggingSettings(settings *logger.LoggingConfig) error {
	var errs []error

	check := func(key, level string) {
		if level != "" && !validLogLevel(level) {
			errs = append(errs, errors.ValidationError(fmt.Sprintf("%s: unknown log level %q", key, level)))
		}
	}

	check("logging.default_level", settings.DefaultLevel)
	if settings.Console != nil {
		check("logging.console.level", settings.Console.Level)
	}
	if settings.FileOutput != nil {
		check("logging.file_output.level", settings.FileOutput.Level)
		if settings.FileOutput.Enabled && settings.FileOutput.Path == "" {
			errs = append(errs, errors.ValidationError("logging.file_output.path must be set when file output is enabled"))
		}
	}
	for module, level := range settings.ModuleLevels {
		check("logging.module_levels."+module, level)
	}

	return errors.Join(errs...)
}

func validLogLevel(level string) bool {
	switch logger.LogLevel(level) {
	case logger.LogLevelTrace, logger.LogLevelDebug, logger.LogLevelInfo, logger.LogLevelWarn, logger.LogLevelError:
		return true
	}
	return false
}

// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/amafra/tonecapture/internal/logger"
)

// setDefaultConfig sets default values for every configuration key.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("database.type", DatabaseSQLite)
	v.SetDefault("database.debug", false)
	v.SetDefault("database.sqlite.path", "tonecapture.db")
	v.SetDefault("database.mysql.host", "localhost")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.username", "tonecapture")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "tonecapture")
	v.SetDefault("database.devicecachettl", "1m")

	v.SetDefault("audio.resamplequality", ResampleBalanced)
	v.SetDefault("audio.outputbitdepth", 24)
	v.SetDefault("audio.maxparallel", 4)
	v.SetDefault("audio.directconvolutionmax", 64)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)
}

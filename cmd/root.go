// Package cmd builds the tonecapture command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amafra/tonecapture/cmd/apply"
	"github.com/amafra/tonecapture/cmd/average"
	"github.com/amafra/tonecapture/cmd/catalog"
	"github.com/amafra/tonecapture/cmd/seed"
	"github.com/amafra/tonecapture/cmd/verify"
	"github.com/amafra/tonecapture/cmd/version"
	"github.com/amafra/tonecapture/internal/buildinfo"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/runtime"
)

// RootCommand creates and returns the root command. rc is initialized
// once flags and configuration are parsed; the caller closes it.
func RootCommand(rc *runtime.Context, info *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tonecapture",
		Short:         "Catalog and apply guitar rig captures",
		Long:          `tonecapture catalogs impulse responses and neural amp model captures together with the chain of devices that produced them, and applies impulse responses to dry recordings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd); err != nil {
		// Flag names are fixed, so this only fails on a programming error.
		panic(err)
	}

	versionCmd := version.Command(info)

	rootCmd.AddCommand(
		versionCmd,
		seed.Command(rc),
		verify.Command(rc),
		catalog.Command(rc),
		apply.Command(rc),
		average.Command(rc),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version needs neither configuration nor a database
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize(rc, info)
	}

	return rootCmd
}

// initialize loads the settings and prepares the runtime context.
func initialize(rc *runtime.Context, info *buildinfo.Context) error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	}

	settings, err := conf.Load()
	if err != nil {
		return err
	}

	if err := rc.Init(settings); err != nil {
		return err
	}

	rc.Log.Debug("tonecapture starting",
		logger.String("run_id", rc.RunID),
		logger.String("version", info.Version()),
		logger.String("database", settings.Database.Type))
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command) error {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the configuration file")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("db", "", "Path to the SQLite catalog database")

	bindings := map[string]string{
		"config":               "config",
		"debug":                "debug",
		"database.sqlite.path": "db",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}

	return nil
}

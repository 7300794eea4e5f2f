// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger"
)

// EnvPrefix prefixes the environment variables bound to global flags, e.g. LIBRARY_CONFIG_PATH.
const EnvPrefix = "LIBRARY"

var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "library is a role-based library management backend",
	Long: `library serves a JSON API for a small library: librarians curate the catalog
and activate accounts, students borrow and return books, and every request is
checked against a table of role grants.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String("config-path", "./etc/", "directory holding main.toml")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag("config-path", rootCmd.PersistentFlags().Lookup("config-path"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration from the flag or LIBRARY_CONFIG_PATH and initializes logging.
func loadConfig() (config.Config, error) {
	cfg, err := config.ReadConfig(viper.GetString("config-path"))
	if err != nil {
		return cfg, err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return cfg, err //nolint:wrapcheck
	}

	return cfg, nil
}

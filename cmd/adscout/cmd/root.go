// Package cmd implements the adscout CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/adscout/adscout/internal/api/client"
	"github.com/adscout/adscout/internal/config"
	"github.com/adscout/adscout/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "adscout",
		Short: "CLI client for the adscout classifieds marketplace",
		Long: "adscout is a command-line client for a classifieds marketplace API.\n" +
			"It lets you search listings, inspect individual ads, browse\n" +
			"categories and cities, and follow your dashboard stats.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.adscout.yaml)")
	rootCmd.PersistentFlags().
		String("server", "", "API server URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().
		String("token", "", "API auth token")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(featuredCmd())
	rootCmd.AddCommand(mineCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(citiesCmd())
	rootCmd.AddCommand(statesCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".adscout")
	}

	viper.SetEnvPrefix("ADSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration: the config file when one
// was read, defaults otherwise, with server and token flags taking
// precedence.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if used := viper.ConfigFileUsed(); used != "" {
		loaded, err := config.Load(used)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if server := viper.GetString("server"); server != "" {
		cfg.API.BaseURL = server
	}
	if token := viper.GetString("token"); token != "" {
		cfg.API.AuthToken = token
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newClient(cfg *config.Config) *apiclient.Client {
	opts := []apiclient.Option{
		apiclient.WithLogger(newLogger(cfg)),
		apiclient.WithRateLimiter(apiclient.NewRateLimiter(
			cfg.API.RateLimit.PerSecond,
			cfg.API.RateLimit.Burst,
			cfg.API.RateLimit.DailyLimit,
		)),
	}
	if cfg.API.AuthToken != "" {
		opts = append(opts, apiclient.WithAuthToken(cfg.API.AuthToken))
	}
	return apiclient.New(cfg.API.BaseURL, opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

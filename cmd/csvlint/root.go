package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackstar257/csvlint/pkg/cli"
	"github.com/blackstar257/csvlint/pkg/config"
	"github.com/blackstar257/csvlint/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "csvlint",
	Short: "csvlint - streaming RFC 4180 CSV validator",
	Long: `Csvlint validates CSV files against RFC 4180 in a single streaming pass.

It reports every structural defect it finds with the record it occurred in:
  - Field count mismatches against the header
  - Quote and escape malformations
  - Line ending violations (strict mode)
  - Invalid UTF-8 encoding

Beyond one-shot checks it can watch files for changes and keep a local
history of validation runs.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the command's code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var cmdErr *cli.CommandError
		if errors.As(err, &cmdErr) {
			os.Exit(cmdErr.ExitCode())
		}
		os.Exit(cli.ExitFatal)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "csvlint.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadRunConfig loads the configuration for a command invocation. A
// missing config file is tolerated unless the user named one explicitly.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	allowMissing := !cmd.Flags().Changed("config")
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile, allowMissing)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupLogging builds the logger from the telemetry config. The verbose
// flag lowers the level to debug regardless of the configured level.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	})
}

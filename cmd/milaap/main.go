package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/milaap/internal/config"
)

var (
	envFile  string
	logPath  string
	logLevel string
	dbPath   string
)

// rootCmd is the milaap command.
var rootCmd = &cobra.Command{
	Use:   "milaap",
	Short: "Municipal lost and found portal",
	Long: `milaap runs the lost and found portal for citizens, police and administrators.

Settings are read from the environment and an optional .env file. Flags
override the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load if present")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (default: stdout/stderr only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level: debug, info, warn or error (default: $MILAAP_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default: $MILAAP_DB or milaap.db)")

	rootCmd.AddCommand(initCmd, serveCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logPath != "" {
		cfg.LogFile = logPath
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return nil, fmt.Errorf("parsing --log-level: %w", err)
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

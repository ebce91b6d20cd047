// Command intakectl runs resume scoring and intake tasks outside the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hiringdesk/resume-intake/internal/config"
	"hiringdesk/resume-intake/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "intakectl",
	Short:         "Resume intake administration tool",
	Long:          "intakectl scores resumes offline, creates users and bulk-ingests PDF folders into a batch.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connect loads configuration and opens the database for commands that need it.
func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

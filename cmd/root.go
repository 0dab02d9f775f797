package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/config"
)

var (
	cfg        *config.Config
	rubricPath string
)

var rootCmd = &cobra.Command{
	Use:   "venue-scout",
	Short: "Venue lead enrichment and scoring pipeline",
	Long:  "Imports venue leads, mines structured facts from their websites through a tiered extraction ladder, scores them 0-100 for catering outreach, and promotes the best to Salesforce.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if rubricPath != "" {
			cfg.Scoring.RubricPath = rubricPath
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rubricPath, "rubric", "",
		"path to a YAML scoring rubric overriding the built-in weights")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claimsight/compare-cli/internal/config"
	"github.com/claimsight/compare-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "compare-cli",
	Short: "Field-level TEST vs GOLD dataset comparison",
	Long:  "Compares an extraction output dataset against a gold reference row-by-row and reports per-field accuracy under exact and fuzzy matching.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the configured run-history database.
func initStore() (store.Store, error) {
	return store.NewSQLite(cfg.Store.Path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

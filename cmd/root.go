package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
)

var cfg *config.Config

// appFs is the filesystem every command reads and writes through.
var appFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "leadgen-cli",
	Short: "Trade-show lead generation pipeline",
	Long:  "Crawls exhibitor and member listings, extracts organization names with Claude, resolves them to domains, finds contacts by persona, and renders outreach drafts.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

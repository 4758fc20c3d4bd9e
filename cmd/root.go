package cmd

import (
	"fmt"
	"os"

	"catalog-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "catalog-sync",
	Short: "Media catalog synchronisation",
	Long: `catalog-sync mirrors a remote media library into a static site.
It lists the library, enriches titles with artwork and ratings, and publishes
one page per title plus a master index to MinIO or a GitHub repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives ISO8601 timestamps for CLI users.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

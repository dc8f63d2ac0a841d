package cmd

import (
	"fmt"
	"os"

	"hour-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "hour-sync",
	Short: "Hour registration synchronization service",
	Long: `Hour-sync mirrors hour registrations from the relational database into
e-boekhouden.nl. The database is the single source of truth; e-boekhouden is
only ever written to, never corrected backwards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Command errors are reported before any run logger exists, so build
		// a console logger here. Debug level selects the development config
		// with ISO8601 timestamps, which reads better on a terminal than the
		// production epoch format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Last resort if even the logger cannot be built
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

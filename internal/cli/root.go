// Package cli provides the command-line consumer of the transfer queue.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sysbutler/butler/internal/logging"
	"github.com/sysbutler/butler/internal/version"
)

var (
	// Global flags
	verbose bool
	logFile string

	// Global logger, initialized in PersistentPreRunE
	logger *logging.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "butler",
		Short:   "System Butler - queued file copy and move operations",
		Version: version.Version,
		Long: `System Butler ` + version.Version + ` - Built: ` + version.BuildTime + `
Queues file and directory copy/move operations and executes them on a
background worker with per-job progress, pause/resume, and collision-free
destination naming.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if logFile != "" {
				logger, err = logging.NewFileLogger(logFile, os.Stderr)
				if err != nil {
					return err
				}
			} else {
				logger = logging.NewDefaultLogger()
			}
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Tee logs to an append-only file")

	rootCmd.AddCommand(newCopyCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newScanCmd())

	return rootCmd
}

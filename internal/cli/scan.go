package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysbutler/butler/internal/diskspace"
	"github.com/sysbutler/butler/internal/localfs"
	"github.com/sysbutler/butler/internal/pathutil"
	"github.com/sysbutler/butler/internal/progress"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan DIR",
		Short: "Report the total size of a directory tree",
		Long: `Recursively sums the size of every regular file under DIR, the same
scan the worker uses to drive progress for directory transfers. Unreadable
entries are skipped, so the result can undercount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := pathutil.ResolveAbsolutePath(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}
			if !localfs.IsDir(dir) {
				return fmt.Errorf("not a directory: %s", dir)
			}

			reporter := progress.NewCLIProgress()
			reporter.Start(-1, "Scanning "+dir)
			total := localfs.TreeSizeWithProgress(dir, func(t uint64) {
				reporter.Update(int64(t))
			})
			reporter.Finish()

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes (%.1f MiB)\n",
				dir, total, float64(total)/(1024*1024))
			if free := diskspace.GetAvailableSpace(dir); free > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "volume free space: %.1f MiB\n",
					float64(free)/(1024*1024))
			}
			return nil
		},
	}
}

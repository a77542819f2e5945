package cmd

import (
	"fmt"
	"runtime"

	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/spf13/cobra"
)

var (
	GitCommit = "development"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "giftery v%s\n", giftery.Version)
			fmt.Fprintf(out, "  User-Agent: %s\n", giftery.DefaultUserAgent)
			fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		},
	}
}

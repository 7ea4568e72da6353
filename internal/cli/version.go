package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printf(out, "Version:    %s\n", version)
			printf(out, "Commit:     %s\n", emptyAsNA(commit))
			printf(out, "Build Date: %s\n", emptyAsNA(buildDate))
			printf(out, "Go Version: %s\n", runtime.Version())
			printf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

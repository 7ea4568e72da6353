package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/cargo-manager/internal/config"
)

// Build information, set by main from -ldflags
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

type rootOptions struct {
	configPath  string
	packagePath string
}

// NewRootCommand builds the command tree. Without a subcommand it starts the
// desktop application.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "cargo-manager",
		Short:        "Desktop front-end for cargo and crates.io",
		SilenceUsage: true,
		Long: `Cargo Manager builds, tests, runs and publishes local Rust packages,
searches crates.io and installs crates, all through the cargo executable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}
			return runGUI(cfg, opts.packagePath)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	root.Flags().StringVar(&opts.packagePath, "path", "", "Package directory or Cargo.toml to open on start")

	root.AddCommand(newSearchCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute is called by main.go.
func Execute(v, c, d string) {
	if v != "" {
		version = v
	}
	commit, buildDate = c, d

	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// emptyAsNA returns "n/a" for unset build fields
func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

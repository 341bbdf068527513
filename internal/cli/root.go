package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version, injected via ldflags
	commit  = ""    // git commit SHA
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the nestpack CLI and returns an error if any command
// fails. Logging defaults to info level; --verbose enables debug. The
// logger is attached to the command context.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "nestpack",
		Short:        "nestpack packs rectangular items into fixed-size bins",
		Long:         `nestpack is a greedy 2D bin packer for cutting-stock layouts, panel nesting, and texture atlases. It reads an item list, packs it with a configurable placement algorithm and bin-selection policy, and exports the resulting layouts.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("nestpack %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPackCmd())
	root.AddCommand(newAlgorithmsCmd())

	return root.ExecuteContext(context.Background())
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/vera/pkg/core/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), version.Info())
			}
			info := version.Info()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vera v%s\n", info["version"])
			fmt.Fprintf(out, "  Language:   %s\n", info["language"])
			fmt.Fprintf(out, "  Git Commit: %s\n", info["commit"])
			fmt.Fprintf(out, "  Build Date: %s\n", info["build_date"])
			fmt.Fprintf(out, "  Go Version: %s\n", info["go"])
			fmt.Fprintf(out, "  OS/Arch:    %s\n", info["platform"])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

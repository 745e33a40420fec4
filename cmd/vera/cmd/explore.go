package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/vera/internal/tui/explorer"
)

const exploreSample = `program main {
    int x = 1;
    if x {
        x = x + 2;
    } else {
        return x;
    }
}
`

func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "explore [file]",
		Aliases: []string{"tui"},
		Short:   "Edit a program with live token and syntax tree views",
		Long: `Start the interactive explorer.

The editor re-parses on every change.

Keys:
  tab / shift+tab   switch between tokens, tree and formatted view
  pgup / pgdn       scroll the view
  esc / ctrl+c      quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src := "<editor>", exploreSample
			if len(args) == 1 {
				var err error
				name, src, err = readSource(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
			}
			return explorer.Run(explorer.Config{
				Engine: a.engine,
				Name:   name,
				Source: src,
			})
		},
	}
}

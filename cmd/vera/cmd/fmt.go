package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/vera/foundation/core/error"
)

func newFmtCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file|-]",
		Short: "Print a program in canonical form",
		Long: `Parse a program and print it back in canonical form.

With --write the file is rewritten in place when its content changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOrStdin(args)
			if write && path == "-" {
				return mdwerror.New("--write needs a file argument").WithCode(mdwerror.CodeInvalidInput)
			}

			name, src, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			formatted, err := a.engine.Format(cmd.Context(), src)
			if err != nil {
				return reportSourceError(cmd.ErrOrStderr(), name, src, err)
			}

			if !write {
				_, err = io.WriteString(cmd.OutOrStdout(), formatted)
				return err
			}
			if formatted == src {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				return mdwerror.Wrap(err, "stat source file").WithDetail("path", path)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return mdwerror.Wrap(err, "writing formatted source").WithDetail("path", path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of stdout")
	return cmd
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/ast"
	"github.com/msto63/vera/internal/store"
)

func newParseCmd(a *app) *cobra.Command {
	var output string
	var positions bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a program and print its syntax tree",
		Long: `Parse a program and print its syntax tree.

Output formats:
  tree   indented outline (default)
  json   AST as JSON
  yaml   AST as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = a.config.Output.Format
			}
			if err := validOutput(output); err != nil {
				return err
			}

			name, src, err := readSource(cmd.InOrStdin(), argOrStdin(args))
			if err != nil {
				return err
			}
			res, err := a.parseAndRecord(cmd.Context(), name, src)
			if err != nil {
				return reportSourceError(cmd.ErrOrStderr(), name, src, err)
			}
			return writeAST(cmd.OutOrStdout(), res.AST, output, positions)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: tree, json, yaml (default from config)")
	cmd.Flags().BoolVar(&positions, "positions", true, "include source positions in json/yaml output")
	return cmd
}

func validOutput(format string) error {
	switch format {
	case "tree", "json", "yaml":
		return nil
	}
	return mdwerror.New("unknown output format").
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("format", format)
}

func writeAST(w io.Writer, root *ast.Block, format string, positions bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ast.ToMapWithOptions(root, ast.ExportOptions{Positions: positions}))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ast.ToMapWithOptions(root, ast.ExportOptions{Positions: positions})); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, ast.Tree(root))
		return err
	}
}

// parseAndRecord parses src and, when history is enabled, stores the run
func (a *app) parseAndRecord(ctx context.Context, name, src string) (*vera.Result, error) {
	start := time.Now()
	res, err := a.engine.Parse(ctx, src)
	elapsed := time.Since(start)

	history, herr := a.openHistory()
	if herr != nil {
		a.logger.WarnWithErr("history unavailable", herr)
		return res, err
	}
	if history != nil {
		defer history.Close()
		if rerr := history.Record(ctx, store.NewRecord(name, src, res, err, elapsed)); rerr != nil {
			a.logger.WarnWithErr("recording history failed", rerr, mdwlog.Fields{"source": name})
		}
	}
	return res, err
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return d.Round(10 * time.Microsecond).String()
}

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	"github.com/msto63/vera/foundation/utils/stringx"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/token"
	"github.com/msto63/vera/internal/diag"
)

func newTokensCmd(a *app) *cobra.Command {
	var kindNames []string

	cmd := &cobra.Command{
		Use:     "tokens [file|-]",
		Aliases: []string{"lex"},
		Short:   "Print the token stream of a program",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(kindNames)
			if err != nil {
				return err
			}
			name, src, err := readSource(cmd.InOrStdin(), argOrStdin(args))
			if err != nil {
				return err
			}
			toks, err := a.engine.Tokenize(cmd.Context(), src)
			if err != nil {
				return reportSourceError(cmd.ErrOrStderr(), name, src, err)
			}
			return writeTokens(cmd.OutOrStdout(), filterTokens(toks, kinds))
		},
	}

	cmd.Flags().StringSliceVarP(&kindNames, "kind", "k", nil, "only print tokens of these kinds, e.g. IDENTIFIER,NUMBER")
	return cmd
}

// parseKinds resolves kind names case-insensitively. An empty list means
// all kinds.
func parseKinds(names []string) (map[token.Kind]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	kinds := make(map[token.Kind]bool, len(names))
	for _, n := range names {
		k, ok := token.ParseKind(strings.ToUpper(strings.TrimSpace(n)))
		if !ok {
			return nil, mdwerror.New("unknown token kind").
				WithCode(mdwerror.CodeInvalidInput).
				WithDetail("kind", n)
		}
		kinds[k] = true
	}
	return kinds, nil
}

func filterTokens(toks []token.Token, kinds map[token.Kind]bool) []token.Token {
	if kinds == nil {
		return toks
	}
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if kinds[t.Kind] {
			out = append(out, t)
		}
	}
	return out
}

func writeTokens(w io.Writer, toks []token.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range toks {
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", t.Pos.Line, t.Pos.Column, t.Kind, stringx.Escape(t.Lexeme))
	}
	return tw.Flush()
}

// reportSourceError renders lexical and syntax errors with their source
// context and returns errReported; other errors are passed through.
func reportSourceError(w io.Writer, name, src string, err error) error {
	if !vera.IsSourceError(err) {
		return err
	}
	fmt.Fprintln(w, diag.NewRenderer(w).Render(name, src, err))
	return errReported
}

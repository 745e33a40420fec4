package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/internal/diag"
	"github.com/msto63/vera/internal/store"
)

// checkResult is the outcome for one input, kept in argument order
type checkResult struct {
	name   string
	src    string
	result *vera.Result
	err    error
}

func newCheckCmd(a *app) *cobra.Command {
	var jobs int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Parse one or more programs and report errors",
		Long: `Parse each file and report lexical and syntax errors.

Files are parsed concurrently. The command fails when any file fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			if jobs < 1 {
				jobs = runtime.NumCPU()
			}

			history, err := a.openHistory()
			if err != nil {
				a.logger.WarnWithErr("history unavailable", err)
				history = nil
			}
			if history != nil {
				defer history.Close()
			}

			results := a.checkAll(cmd.Context(), cmd.InOrStdin(), args, jobs, history)
			return writeCheckReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, quiet)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel parses (default: number of CPUs)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	return cmd
}

// checkAll parses every path with at most jobs parses in flight
func (a *app) checkAll(ctx context.Context, stdin io.Reader, paths []string, jobs int, history store.HistoryStore) []checkResult {
	results := make([]checkResult, len(paths))
	sem := make(chan struct{}, jobs)
	read := stdinOnce(stdin)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			name, src, err := read(path)
			if err != nil {
				results[i] = checkResult{name: path, err: err}
				return
			}
			start := time.Now()
			res, err := a.engine.Parse(ctx, src)
			elapsed := time.Since(start)
			results[i] = checkResult{name: name, src: src, result: res, err: err}

			if history != nil {
				if rerr := history.Record(ctx, store.NewRecord(name, src, res, err, elapsed)); rerr != nil {
					a.logger.WarnWithErr("recording history failed", rerr)
				}
			}
		}(i, path)
	}
	wg.Wait()
	return results
}

// stdinOnce returns a reader for paths that consumes stdin at most once, so
// repeated "-" arguments all see the same input
func stdinOnce(stdin io.Reader) func(path string) (string, string, error) {
	var once sync.Once
	var name, src string
	var err error
	return func(path string) (string, string, error) {
		if path != "" && path != "-" {
			return readSource(stdin, path)
		}
		once.Do(func() { name, src, err = readSource(stdin, "-") })
		return name, src, err
	}
}

func writeCheckReport(out, errOut io.Writer, results []checkResult, quiet bool) error {
	renderer := diag.NewRenderer(errOut)
	failed := 0
	for _, r := range results {
		switch {
		case r.err == nil:
			if !quiet {
				fmt.Fprintf(out, "%s: ok (%d statements, %s)\n", r.name, r.result.Statements, formatDuration(r.result.Duration))
			}
		case vera.IsSourceError(r.err):
			failed++
			fmt.Fprintln(errOut, renderer.Render(r.name, r.src, r.err))
		default:
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", r.name, r.err)
		}
	}

	if !quiet || failed > 0 {
		fmt.Fprintf(out, "%d checked, %d failed\n", len(results), failed)
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

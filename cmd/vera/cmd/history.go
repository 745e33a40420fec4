package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/vera/foundation/utils/stringx"
	"github.com/msto63/vera/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the parse history",
		Long: `Inspect the parse history recorded by parse, check and serve.

Recording is controlled by [history] enabled in the configuration; these
commands read the configured database either way.`,
	}
	cmd.AddCommand(newHistoryRecentCmd(a), newHistoryStatsCmd(a), newHistoryPruneCmd(a))
	return cmd
}

func newHistoryRecentCmd(a *app) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := a.historyStore()
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return writeRecords(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newHistoryStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := a.historyStore()
			if err != nil {
				return err
			}
			defer history.Close()

			stats, err := history.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			return writeStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := a.historyStore()
			if err != nil {
				return err
			}
			defer history.Close()

			n, err := history.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of the runs to delete")
	return cmd
}

func writeRecords(w io.Writer, records []*store.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tSTATUS\tTOKENS\tSTMTS\tDURATION\tERROR")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			stringx.Truncate(r.Source, 32, "..."),
			r.Status,
			r.Tokens,
			r.Statements,
			formatDuration(r.Duration),
			stringx.Truncate(r.ErrorMessage, 60, "..."),
		)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, s *store.Stats) error {
	fmt.Fprintf(w, "runs:     %d (%d ok, %d failed)\n", s.Total, s.OK, s.Errors)
	fmt.Fprintf(w, "average:  %s\n", formatDuration(s.AverageDuration))
	if !s.Oldest.IsZero() {
		fmt.Fprintf(w, "range:    %s - %s\n",
			s.Oldest.Local().Format(time.RFC3339), s.Newest.Local().Format(time.RFC3339))
	}

	codes := make([]string, 0, len(s.ErrorsByCode))
	for code := range s.ErrorsByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-16s %d\n", code, s.ErrorsByCode[code])
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

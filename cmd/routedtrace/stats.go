package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/routed/pkg/routed/journal"
)

func newStatsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show raise counts, errors and average duration per event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := openJournal(v)
			if err != nil {
				return err
			}
			defer j.Close()

			stats, err := j.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
}

func printStats(out io.Writer, stats []journal.EventStats) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(out, "no raises recorded")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tRAISES\tERRORS\tHANDLED\tAVG DURATION")
	total := 0
	for _, s := range stats {
		total += s.Raises
		fmt.Fprintf(w, "%s.%s\t%d\t%d\t%d\t%s\n", s.Owner, s.Event, s.Raises, s.Errors, s.Handled, s.AvgDuration.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "TOTAL\t%d\t\t\t\n", total)
	return w.Flush()
}

func newPruneCmd(v *viper.Viper) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete raises older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			j, err := openJournal(v)
			if err != nil {
				return err
			}
			defer j.Close()

			n, err := j.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pruned %d raises\n", n)
			return err
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "age of the raises to delete")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/routed/pkg/routed/journal"
)

// entryJSON is the --json form of a journal entry.
type entryJSON struct {
	ID          string  `json:"id"`
	Event       string  `json:"event"`
	Owner       string  `json:"owner"`
	Strategy    string  `json:"strategy"`
	Source      string  `json:"source"`
	RouteLength int     `json:"route_length"`
	Invoked     int     `json:"invoked"`
	Skipped     int     `json:"skipped"`
	Handled     bool    `json:"handled"`
	Error       string  `json:"error,omitempty"`
	RaisedAt    string  `json:"raised_at"`
	DurationMs  float64 `json:"duration_ms"`
}

func newListCmd(v *viper.Viper) *cobra.Command {
	var (
		event  string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent raises, newest first",
		Long: `List recent raises, newest first.

Examples:
  # Last 50 raises
  routedtrace list

  # Every Click raise, whatever the owner
  routedtrace list --event Click --limit 0

  # Only Drop raises declared by ListBox
  routedtrace list --event ListBox.Drop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := openJournal(v)
			if err != nil {
				return err
			}
			defer j.Close()

			q := journal.ParseEventName(event)
			q.Limit = limit
			entries, err := j.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return printEntriesJSON(cmd.OutOrStdout(), entries)
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "only raises of this event, as Name or Owner.Name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of raises (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func printEntries(out io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no raises recorded")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tSTRATEGY\tSOURCE\tROUTE\tINVOKED\tSKIPPED\tHANDLED\tDURATION\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s.%s\t%s\t%s\t%d\t%d\t%d\t%t\t%s\t%s\n",
			e.RaisedAt.Local().Format("2006-01-02 15:04:05.000"),
			e.Owner, e.Event, e.Strategy, e.Source,
			e.RouteLength, e.Invoked, e.Skipped, e.Handled,
			e.Duration.Round(time.Microsecond), e.Err)
	}
	return w.Flush()
}

func printEntriesJSON(out io.Writer, entries []journal.Entry) error {
	rows := make([]entryJSON, len(entries))
	for i, e := range entries {
		rows[i] = entryJSON{
			ID:          e.ID.String(),
			Event:       e.Event,
			Owner:       e.Owner,
			Strategy:    e.Strategy,
			Source:      e.Source,
			RouteLength: e.RouteLength,
			Invoked:     e.Invoked,
			Skipped:     e.Skipped,
			Handled:     e.Handled,
			Error:       e.Err,
			RaisedAt:    e.RaisedAt.UTC().Format(time.RFC3339Nano),
			DurationMs:  float64(e.Duration.Microseconds()) / 1000,
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/routed/pkg/routed/journal"
)

var errNoDatabase = errors.New("no journal database: set --db or ROUTEDTRACE_DB")

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "routedtrace",
		Short: "Inspect a routed event raise journal",
		Long: `routedtrace reads the SQLite raise journal recorded by a routed event
manager and prints recent raises or per-event statistics.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("db", "", "journal database path (env ROUTEDTRACE_DB)")
	_ = v.BindPFlag("db", root.PersistentFlags().Lookup("db"))

	v.SetEnvPrefix("ROUTEDTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newListCmd(v), newStatsCmd(v), newPruneCmd(v))
	return root
}

// openJournal opens the configured database. A missing file is an error
// rather than a new empty journal.
func openJournal(v *viper.Viper) (*journal.SQLiteRecorder, error) {
	path := v.GetString("db")
	if path == "" {
		return nil, errNoDatabase
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal database %s: %w", path, err)
	}
	return journal.NewSQLiteRecorder(path)
}

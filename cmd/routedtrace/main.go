// Command routedtrace inspects a routed event journal written by a Manager
// configured with the sqlite journal driver.
//
// Usage:
//
//	routedtrace --db raises.db list --event Click --limit 20
//	routedtrace stats
//	routedtrace prune --older-than 24h
//
// The database path comes from --db or the ROUTEDTRACE_DB environment
// variable.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

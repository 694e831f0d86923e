package domain

import "time"

// RunStats holds statistics about a single pipeline run.
type RunStats struct {
	Fetched   int
	Deduped   int
	Accepted  int
	Skipped   int
	Processed int
	Errors    int
	Duration  time.Duration
}

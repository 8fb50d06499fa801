// Package sanitize removes stored plate records.
package sanitize

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Purger deletes (or, when dry, counts) records older than cutoff.
type Purger interface {
	Purge(ctx context.Context, runID string, cutoff time.Time, dry bool) (int64, error)
}

// Options selects what to purge. Nothing is deleted unless DryRun is false
// and Yes is set.
type Options struct {
	RunID     string
	OlderThan time.Duration
	DryRun    bool
	Yes       bool
	Now       time.Time
}

// Run purges according to opts and prints what it did to w.
func Run(ctx context.Context, p Purger, opts Options, w io.Writer) (int64, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-opts.OlderThan)
	scope := "all runs"
	if opts.RunID != "" {
		scope = "run " + opts.RunID
	}

	n, err := p.Purge(ctx, opts.RunID, cutoff, true)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	fmt.Fprintf(w, "%d plate records in %s created before %s\n", n, scope, cutoff.Format(time.RFC3339))
	if n == 0 {
		return 0, nil
	}
	if opts.DryRun {
		fmt.Fprintln(w, "dry-run enabled; no changes will be made. Use --dry-run=false --yes to execute.")
		return 0, nil
	}
	if !opts.Yes {
		fmt.Fprintln(w, "Destructive operation. Pass --yes to confirm execution. Aborting.")
		return 0, nil
	}
	deleted, err := p.Purge(ctx, opts.RunID, cutoff, false)
	if err != nil {
		return deleted, fmt.Errorf("delete records: %w", err)
	}
	fmt.Fprintf(w, "Deleted %d plate records.\n", deleted)
	return deleted, nil
}

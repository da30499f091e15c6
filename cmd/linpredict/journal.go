package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robottwo/linpredict/internal/journal"
	"github.com/robottwo/linpredict/internal/series"
	"github.com/robottwo/linpredict/internal/styles"
)

type entrySource interface {
	Recent(limit int) ([]journal.Entry, error)
	Count() (int64, error)
}

func printHistory(w io.Writer, src entrySource, limit int, now time.Time) error {
	entries, err := src.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	total, err := src.Count()
	if err != nil {
		return fmt.Errorf("failed to count journal entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, styles.HINT("No prediction attempts recorded yet."))
		return nil
	}

	fmt.Fprintln(w, styles.HEADING(fmt.Sprintf("Last %d of %s prediction attempts", len(entries), humanize.Comma(total))))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-16s %s\n", styles.HINT(humanize.RelTime(e.CreatedAt, now, "ago", "from now")), describeEntry(e))
	}
	return nil
}

func describeEntry(e journal.Entry) string {
	if e.Succeeded() {
		return styles.SUCCESS(fmt.Sprintf("%s → %s", series.FormatValue(e.X.Float64), series.FormatValue(e.Prediction.Float64))) +
			styles.HINT(fmt.Sprintf(" (%dms)", e.LatencyMs))
	}
	if e.X.Valid {
		return styles.ERROR(fmt.Sprintf("%s ✗ %s", series.FormatValue(e.X.Float64), e.Error))
	}
	return styles.ERROR(fmt.Sprintf("%q ✗ %s", e.Input, e.Error))
}

type entryResetter interface {
	Count() (int64, error)
	Reset() error
}

func resetEntries(w io.Writer, j entryResetter) error {
	total, err := j.Count()
	if err != nil {
		return fmt.Errorf("failed to count journal entries: %w", err)
	}
	if err := j.Reset(); err != nil {
		return fmt.Errorf("failed to reset journal: %w", err)
	}
	fmt.Fprintln(w, styles.SUCCESS(fmt.Sprintf("Deleted %s prediction attempts.", humanize.Comma(total))))
	return nil
}

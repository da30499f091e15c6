package main

import (
	"bytes"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/robottwo/linpredict/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	entries []journal.Entry
	err     error
	reset   bool
}

func (f *fakeJournal) Recent(limit int) ([]journal.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[:min(limit, len(f.entries))], nil
}

func (f *fakeJournal) Count() (int64, error) {
	return int64(len(f.entries)), f.err
}

func (f *fakeJournal) Reset() error {
	f.reset = true
	return f.err
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j := &fakeJournal{entries: []journal.Entry{
		{
			CreatedAt:  now.Add(-2 * time.Minute),
			Input:      "5",
			X:          sql.NullFloat64{Float64: 5, Valid: true},
			Prediction: sql.NullFloat64{Float64: 12.8, Valid: true},
			LatencyMs:  42,
		},
		{
			CreatedAt: now.Add(-3 * time.Hour),
			Input:     "7",
			X:         sql.NullFloat64{Float64: 7, Valid: true},
			Error:     "request failed with status code 500",
		},
		{
			CreatedAt: now.Add(-50 * time.Hour),
			Input:     "abc",
			Error:     "Please enter a valid number",
		},
	}}

	var out bytes.Buffer
	require.NoError(t, printHistory(&out, j, 10, now))

	text := out.String()
	assert.Contains(t, text, "Last 3 of 3 prediction attempts")
	assert.Contains(t, text, "2 minutes ago")
	assert.Contains(t, text, "5 → 12.8")
	assert.Contains(t, text, "(42ms)")
	assert.Contains(t, text, "7 ✗ request failed with status code 500")
	assert.Contains(t, text, `"abc" ✗ Please enter a valid number`)
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHistory(&out, &fakeJournal{}, 10, time.Now()))
	assert.Contains(t, out.String(), "No prediction attempts recorded yet.")
}

func TestPrintHistory_Error(t *testing.T) {
	var out bytes.Buffer
	err := printHistory(&out, &fakeJournal{err: errors.New("locked")}, 10, time.Now())
	assert.ErrorContains(t, err, "locked")
}

func TestResetEntries(t *testing.T) {
	j := &fakeJournal{entries: make([]journal.Entry, 1200)}

	var out bytes.Buffer
	require.NoError(t, resetEntries(&out, j))

	assert.True(t, j.reset)
	assert.Contains(t, out.String(), "Deleted 1,200 prediction attempts.")
}

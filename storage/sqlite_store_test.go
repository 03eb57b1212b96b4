package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(source string, started time.Time) RunRecord {
	return RunRecord{
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		SourceFile: source,
		Kind:       "items",
		Mode:       "upsert",
		Total:      10,
		Success:    8,
		Skipped:    1,
		Errors:     1,
	}
}

func TestInsertAndListRuns(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	first, err := store.InsertRun(sampleRun("a.csv", base), []string{"row 3: item_code is empty"})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if first == "" {
		t.Fatal("expected generated run id")
	}
	if _, err := store.InsertRun(sampleRun("b.csv", base.Add(time.Hour)), nil); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d", len(runs))
	}
	if runs[0].SourceFile != "b.csv" {
		t.Fatalf("newest first, got %q", runs[0].SourceFile)
	}
	if runs[1].Success != 8 || runs[1].Errors != 1 || runs[1].Kind != "items" {
		t.Fatalf("run = %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("started_at = %v", runs[1].StartedAt)
	}

	limited, err := store.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns(1): %v", err)
	}
	if len(limited) != 1 || limited[0].SourceFile != "b.csv" {
		t.Fatalf("limited = %v", limited)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	id, err := store.InsertRun(sampleRun("a.csv", started), []string{"first", "second"})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	messages, err := store.RunErrors(id)
	if err != nil {
		t.Fatalf("RunErrors: %v", err)
	}
	if len(messages) != 2 || messages[0] != "first" || messages[1] != "second" {
		t.Fatalf("messages = %v", messages)
	}

	if _, err := store.RunErrors("no-such-run"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestDryRunFlagRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	record := sampleRun("a.csv", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))
	record.DryRun = true
	if _, err := store.InsertRun(record, nil); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if !runs[0].DryRun {
		t.Fatal("dry_run flag lost")
	}
}

func TestDeleteAllRuns(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	if _, err := store.InsertRun(sampleRun("a.csv", started), []string{"x"}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	deleted, err := store.DeleteAllRuns()
	if err != nil {
		t.Fatalf("DeleteAllRuns: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d", deleted)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("runs = %v", runs)
	}
}

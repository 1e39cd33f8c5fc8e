package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackstar257/csvlint/pkg/csv/defect"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "csvlint.db"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(file string, valid bool) *Run {
	run := &Run{
		File:        file,
		Delimiter:   ",",
		Valid:       valid,
		RecordCount: 10,
		StartedAt:   time.Now(),
		Duration:    5 * time.Millisecond,
	}
	if !valid {
		run.Defects = []defect.Defect{
			{RecordNumber: 2, Category: defect.CategoryFieldCount, Message: "wrong number of fields: expected 3, got 2"},
		}
	}
	return run
}

func TestStoreSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := sampleRun("data.csv", false)
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("Save() did not assign an ID")
	}

	loaded, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Get() = nil, want run")
	}
	if loaded.File != "data.csv" {
		t.Errorf("File = %q, want %q", loaded.File, "data.csv")
	}
	if loaded.Valid {
		t.Error("Valid = true, want false")
	}
	if loaded.RecordCount != 10 {
		t.Errorf("RecordCount = %d, want 10", loaded.RecordCount)
	}
	if len(loaded.Defects) != 1 {
		t.Fatalf("len(Defects) = %d, want 1", len(loaded.Defects))
	}
	if loaded.Defects[0].Category != defect.CategoryFieldCount {
		t.Errorf("Defects[0].Category = %q, want %q", loaded.Defects[0].Category, defect.CategoryFieldCount)
	}
	if loaded.Duration != 5*time.Millisecond {
		t.Errorf("Duration = %v, want 5ms", loaded.Duration)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := testStore(t)

	run, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if run != nil {
		t.Errorf("Get() = %+v, want nil for missing run", run)
	}
}

func TestStoreList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i, file := range []string{"a.csv", "b.csv", "a.csv"} {
		run := sampleRun(file, true)
		run.StartedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := store.Save(ctx, run); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}

	all, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d runs, want 3", len(all))
	}
	// Newest first.
	if !all[0].StartedAt.After(all[1].StartedAt) {
		t.Error("List() runs not ordered newest first")
	}

	filtered, err := store.List(ctx, ListOptions{File: "a.csv"})
	if err != nil {
		t.Fatalf("List(file) failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("List(file=a.csv) returned %d runs, want 2", len(filtered))
	}

	limited, err := store.List(ctx, ListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("List(limit) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit=1) returned %d runs, want 1", len(limited))
	}
}

func TestStorePrune(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	old := sampleRun("old.csv", true)
	old.StartedAt = time.Now().AddDate(0, 0, -120)
	recent := sampleRun("recent.csv", true)

	if err := store.Save(ctx, old); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(ctx, recent); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	deleted, err := store.Prune(ctx, time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d runs, want 1", deleted)
	}

	remaining, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].File != "recent.csv" {
		t.Errorf("after prune, remaining = %+v, want only recent.csv", remaining)
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "csvlint.db"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestStoreValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, nil); err == nil {
		t.Error("Save(nil) = nil error, want failure")
	}
	if err := store.Save(ctx, &Run{}); err == nil {
		t.Error("Save(empty file) = nil error, want failure")
	}
	if _, err := store.Get(ctx, ""); err == nil {
		t.Error("Get(empty id) = nil error, want failure")
	}
}

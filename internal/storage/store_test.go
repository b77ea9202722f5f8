package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "state", "history.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	run := &Run{
		StartedAt:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Duration:   150 * time.Millisecond,
		Mode:       "LineSearch",
		Glob:       "*.txt",
		Expression: "foo",
		Output:     "console",
		Hits:       3,
		Errors:     1,
	}

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected SaveRun to assign an ID")
	}

	retrieved, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if !retrieved.StartedAt.Equal(run.StartedAt) {
		t.Errorf("expected StartedAt %v, got %v", run.StartedAt, retrieved.StartedAt)
	}
	if retrieved.Duration != run.Duration {
		t.Errorf("expected Duration %v, got %v", run.Duration, retrieved.Duration)
	}
	if retrieved.Mode != run.Mode || retrieved.Glob != run.Glob || retrieved.Expression != run.Expression {
		t.Errorf("request fields not preserved: %+v", retrieved)
	}
	if retrieved.Hits != 3 || retrieved.Errors != 1 {
		t.Errorf("expected hits=3 errors=1, got hits=%d errors=%d", retrieved.Hits, retrieved.Errors)
	}
}

func TestStore_SaveRun_KeepsExplicitID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	run := &Run{ID: "fixed-id", StartedAt: time.Now()}
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if run.ID != "fixed-id" {
		t.Errorf("expected ID to stay fixed-id, got %s", run.ID)
	}
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetRun("non-existent")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_GetRuns_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 3, 1} {
		run := &Run{StartedAt: base.Add(time.Duration(offset) * time.Hour), Hits: offset}
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	runs, err := store.GetRuns(0)
	if err != nil {
		t.Fatalf("failed to get runs: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(runs))
	}
	for i, want := range []int{3, 2, 1, 0} {
		if runs[i].Hits != want {
			t.Errorf("position %d: expected run %d, got %d", i, want, runs[i].Hits)
		}
	}

	limited, err := store.GetRuns(2)
	if err != nil {
		t.Fatalf("failed to get runs: %v", err)
	}
	if len(limited) != 2 || limited[0].Hits != 3 || limited[1].Hits != 2 {
		t.Errorf("expected the two newest runs, got %+v", limited)
	}
}

func TestStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if err := store.SaveRun(&Run{StartedAt: time.Now()}); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	n, err := store.Clear()
	if err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 cleared runs, got %d", n)
	}

	runs, err := store.GetRuns(0)
	if err != nil {
		t.Fatalf("failed to get runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs after clear, got %d", len(runs))
	}

	if err := store.SaveRun(&Run{StartedAt: time.Now()}); err != nil {
		t.Errorf("store unusable after clear: %v", err)
	}
}

func TestStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(&Run{ID: "persisted", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.GetRun("persisted"); err != nil {
		t.Errorf("expected run to survive reopen: %v", err)
	}
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"formicarium/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	runID := uuid.NewString()
	started := time.Now().UTC().Truncate(time.Second)
	if err := store.CreateRun(ctx, domain.Run{
		ID:          runID,
		Seed:        42,
		Ants:        10,
		Morsels:     20,
		TotalSupply: 600,
		Status:      domain.RunStatusRunning,
		StartedAt:   started,
	}); err != nil {
		t.Fatalf("create run: %v", err)
	}

	for gen := uint64(100); gen <= 300; gen += 100 {
		if err := store.AppendSample(ctx, domain.Sample{
			RunID:      runID,
			Generation: gen,
			Stored:     gen / 10,
			Trails:     50,
			Foraging:   7,
			Carrying:   3,
		}); err != nil {
			t.Fatalf("append sample at %d: %v", gen, err)
		}
	}

	finished := started.Add(5 * time.Second)
	if err := store.FinishRun(ctx, runID, domain.RunStatusCompleted, 12345, 600, finished); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status: got %s, want completed", run.Status)
	}
	if run.Generations != 12345 || run.Stored != 600 {
		t.Fatalf("unexpected run counters: %+v", run)
	}
	if run.FinishedAt == nil || !run.FinishedAt.Equal(finished) {
		t.Fatalf("finished at: got %v, want %v", run.FinishedAt, finished)
	}
	if !run.StartedAt.Equal(started) {
		t.Fatalf("started at: got %v, want %v", run.StartedAt, started)
	}

	samples, err := store.ListRunSamples(ctx, runID, 0)
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("samples: got %d, want 3", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Generation <= samples[i-1].Generation {
			t.Fatalf("samples out of order: %d after %d", samples[i].Generation, samples[i-1].Generation)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("unexpected run list: %+v", runs)
	}
}

func TestGetRunMissing(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if _, err := store.GetRun(context.Background(), uuid.NewString()); err == nil {
		t.Fatalf("expected missing run to error")
	}
}

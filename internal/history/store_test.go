package history_test

import (
	"context"
	"testing"

	"starcut/internal/history"
	"starcut/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJobLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job, err := store.NewJob(ctx, "tok-1", "proj-1", "mp4", 5)
	if err != nil {
		t.Fatalf("NewJob returned error: %v", err)
	}
	if job.Status != history.StatusRunning {
		t.Fatalf("expected running status, got %s", job.Status)
	}
	if job.ProgressTotal != 5 {
		t.Fatalf("expected total 5, got %d", job.ProgressTotal)
	}

	if err := store.UpdateProgress(ctx, "tok-1", "segment", 2, 5, "Trimming clip 2"); err != nil {
		t.Fatalf("UpdateProgress returned error: %v", err)
	}
	job, err = store.GetByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if job.ProgressPhase != "segment" || job.ProgressCurrent != 2 {
		t.Fatalf("unexpected progress: %+v", job)
	}

	if err := store.MarkCompleted(ctx, "tok-1", "/out/proj_tok-1.mp4", 4000, 1024); err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	job, err = store.GetByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if job.Status != history.StatusCompleted || job.DurationMS != 4000 || job.SizeBytes != 1024 {
		t.Fatalf("unexpected completed job: %+v", job)
	}
}

func TestMarkFailedRecordsMessage(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NewJob(ctx, "tok-2", "proj-1", "mov", 3); err != nil {
		t.Fatalf("NewJob returned error: %v", err)
	}
	if err := store.MarkFailed(ctx, "tok-2", "ffmpeg concat: exit status 1"); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	job, err := store.GetByToken(ctx, "tok-2")
	if err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if job.Status != history.StatusFailed {
		t.Fatalf("expected failed status, got %s", job.Status)
	}
	if job.ErrorMessage == "" {
		t.Fatal("expected error message to be recorded")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, token := range []string{"a", "b", "c"} {
		if _, err := store.NewJob(ctx, token, "proj-1", "mp4", 2); err != nil {
			t.Fatalf("NewJob(%s) returned error: %v", token, err)
		}
	}
	jobs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Token != "c" || jobs[1].Token != "b" {
		t.Fatalf("expected newest first, got %s then %s", jobs[0].Token, jobs[1].Token)
	}
}

func TestGetByTokenMissing(t *testing.T) {
	store := openStore(t)
	if _, err := store.GetByToken(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

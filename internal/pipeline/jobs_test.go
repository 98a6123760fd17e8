package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusSegmenting, "segmenting"},
		{StatusExtracting, "extracting"},
		{StatusValidating, "validating"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("entry sb3 failed")
	job.AddError("education b2 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "entry sb3 failed" {
		t.Errorf("expected first error %q, got %q", "entry sb3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_SnapshotHasNoNilErrors(t *testing.T) {
	job := &Job{ID: "snap-test"}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("snapshot must serialize errors as [], not null")
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := &Job{ID: "prog-test"}
	job.SetTotalEntries(3)
	job.IncrEntriesExtracted()
	job.IncrEntriesExtracted()
	job.SetValidationIssues(1)

	snap := job.Snapshot()
	if snap.Progress.TotalEntries != 3 {
		t.Errorf("expected 3 total entries, got %d", snap.Progress.TotalEntries)
	}
	if snap.Progress.EntriesExtracted != 2 {
		t.Errorf("expected 2 extracted, got %d", snap.Progress.EntriesExtracted)
	}
	if snap.Progress.ValidationIssues != 1 {
		t.Errorf("expected 1 issue, got %d", snap.Progress.ValidationIssues)
	}
}

func TestJobStore_PutGetCleanup(t *testing.T) {
	s := NewJobStore(10 * time.Millisecond)
	job := &Job{ID: "j1", UpdatedAt: time.Now().Add(-time.Minute)}
	s.Put(job)

	if s.Get("j1") == nil {
		t.Fatal("expected job before cleanup")
	}
	s.Cleanup()
	if s.Get("j1") != nil {
		t.Error("expected expired job to be evicted")
	}
}

func TestGenerateULID_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %d (%q)", len(id), id)
		}
		for _, c := range id {
			if c == 'I' || c == 'L' || c == 'O' || c == 'U' {
				t.Fatalf("ULID %q contains excluded character %q", id, c)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate ULID %q", id)
		}
		seen[id] = true
	}
}

func TestGenerateULID_TimestampOrdering(t *testing.T) {
	a := generateULID()
	time.Sleep(2 * time.Millisecond)
	b := generateULID()
	if !(a < b) {
		t.Errorf("expected lexicographic ordering across milliseconds: %q then %q", a, b)
	}
}

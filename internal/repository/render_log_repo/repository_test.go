package render_log_repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"spinny_backend/internal/model"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renders", "log.db")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	entries := []model.RenderLogEntry{
		{Names: []string{"Анна", "Борис"}, Winner: "Борис", Landed: "Борис", Frames: 42, Virtual: 84 * time.Millisecond, Output: "a.gif", CreatedAt: at},
		{Names: []string{"x", "y", "z"}, Winner: "y", Landed: "z", Frames: 7, Virtual: 21 * time.Millisecond, Diverged: true, Output: "b.gif", CreatedAt: at.Add(time.Minute)},
	}
	for i := range entries {
		id, err := r.Record(ctx, &entries[i])
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if id != int64(i+1) {
			t.Fatalf("id = %d, want %d", id, i+1)
		}
	}

	got, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d", len(got))
	}
	latest := got[0]
	if !latest.Diverged || latest.Landed != "z" || len(latest.Names) != 3 || latest.Virtual != 21*time.Millisecond {
		t.Fatalf("latest = %+v", latest)
	}
	if !got[1].CreatedAt.Equal(at) || got[1].Names[0] != "Анна" {
		t.Fatalf("oldest = %+v", got[1])
	}

	one, err := r.Recent(ctx, 1)
	if err != nil || len(one) != 1 {
		t.Fatalf("Recent(1) = %v, %v", one, err)
	}
}

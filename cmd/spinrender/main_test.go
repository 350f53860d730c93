package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/gif"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
	"spinny_backend/internal/repository/render_log_repo"
)

func TestParseNames(t *testing.T) {
	ps := parseNames(" Анна, Боб,, Вика ")
	if len(ps) != 3 || ps[0].Name != "Анна" || ps[2].UserID != "Вика" || ps[1].Weight != model.DefaultWeight {
		t.Fatalf("parseNames = %+v", ps)
	}
}

func TestPickWinner(t *testing.T) {
	ps := parseNames("a,b,c")

	w, err := pickWinner(ps, "b", 0)
	if err != nil || w.Name != "b" {
		t.Fatalf("explicit winner = %+v, %v", w, err)
	}
	if _, err := pickWinner(ps, "z", 0); err == nil {
		t.Fatal("unknown winner accepted")
	}

	first, err := pickWinner(ps, "", 42)
	if err != nil {
		t.Fatalf("seeded draw: %v", err)
	}
	again, _ := pickWinner(ps, "", 42)
	if first != again {
		t.Fatalf("seeded draws differ: %v vs %v", first, again)
	}

	if _, err := pickWinner(parseNames("a,a"), "", 1); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("duplicate names: err = %v", err)
	}
}

func TestRunWritesGIFAndLog(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "spin:\n  width: 200\n  height: 200\n  size: 90\n  gif:\n    frame_step: 1\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := filepath.Join(dir, "spin.gif")
	db := filepath.Join(dir, "renders.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), log, options{
		names:      "a,b,c,d",
		winner:     "c",
		out:        out,
		up:         10 * time.Millisecond,
		down:       50 * time.Millisecond,
		dbPath:     db,
		configPath: cfgPath,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open gif: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 13 {
		t.Fatalf("gif frames = %d, want 13", len(anim.Image))
	}

	repo, err := render_log_repo.Open(db)
	if err != nil {
		t.Fatalf("open render log: %v", err)
	}
	defer repo.Close()
	entries, err := repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Winner != "c" || e.Landed != "c" || e.Frames != 13 || e.Diverged || len(e.Names) != 4 {
		t.Fatalf("entry = %+v", e)
	}
}

func TestRunRequiresNames(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), log, options{names: " , ", configPath: filepath.Join(t.TempDir(), "none.yaml")})
	if err == nil {
		t.Fatal("empty names accepted")
	}
}

func TestDumpJournal(t *testing.T) {
	dir := t.TempDir()
	j := broadcast.NewJournal(dir)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, ev := range []string{"join", "spin"} {
		msg := broadcast.Message{Channel: broadcast.ChannelName("w1"), Event: ev, Data: map[string]any{"userId": "u1"}, At: at}
		if err := j.Write(msg); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var out bytes.Buffer
	if err := dumpJournal(&out, j.PathForHour("2026-05-01-09")); err != nil {
		t.Fatalf("dumpJournal: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	var got broadcast.Message
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != "spin" || got.Data["userId"] != "u1" || !got.At.Equal(at) {
		t.Fatalf("second line = %+v", got)
	}

	if err := dumpJournal(&out, filepath.Join(dir, "missing.jsonl.zst")); err == nil {
		t.Fatal("missing journal accepted")
	}
}

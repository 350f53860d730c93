package broadcast

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"spinny_backend/internal/model"
)

// Journal пишет все события в почасовые файлы JSONL, сжатые zstd
type Journal struct {
	baseDir string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJournal(baseDir string) *Journal {
	return &Journal{
		baseDir: baseDir,
		now:     time.Now,
	}
}

func (j *Journal) Publish(_ context.Context, wheelID string, kind model.EventKind, payload map[string]any) error {
	return j.Write(newMessage(wheelID, kind, payload, j.now()))
}

func (j *Journal) Write(msg Message) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	hour := msg.At.UTC().Format("2006-01-02-15")
	if hour != j.curHour {
		if err := j.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.enc.Flush()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

// PathForHour - файл журнала за час в формате 2006-01-02-15
func (j *Journal) PathForHour(hour string) string {
	return filepath.Join(j.baseDir, "events", hour+".jsonl.zst")
}

func (j *Journal) rotateLocked(hour string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	path := j.PathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 64*1024)
	j.curHour = hour
	return nil
}

func (j *Journal) closeLocked() error {
	var err error
	if j.w != nil {
		if e := j.w.Flush(); e != nil && err == nil {
			err = e
		}
	}
	if j.enc != nil {
		if e := j.enc.Close(); e != nil && err == nil {
			err = e
		}
	}
	if j.f != nil {
		if e := j.f.Close(); e != nil && err == nil {
			err = e
		}
	}
	j.f, j.enc, j.w = nil, nil, nil
	j.curHour = ""
	return err
}

// ReadJournal читает один файл журнала. Файл может состоять из нескольких zstd кадров
func ReadJournal(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Message
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var m Message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, sc.Err()
}

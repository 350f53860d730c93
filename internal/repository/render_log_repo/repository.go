package render_log_repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
)

const (
	table       = "renders"
	colID       = "id"
	colNames    = "names_json"
	colWinner   = "winner"
	colLanded   = "landed"
	colFrames   = "frames"
	colVirtual  = "virtual_ms"
	colDiverged = "diverged"
	colOutput   = "output"
	colCreated  = "created_at"
)

type repo struct {
	db *sql.DB
}

// Open открывает локальный журнал рендеров в sqlite и создает схему
func Open(path string) (repository.RenderLogRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Один писатель
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &repo{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			names_json TEXT NOT NULL,
			winner TEXT NOT NULL,
			landed TEXT NOT NULL,
			frames INTEGER NOT NULL,
			virtual_ms INTEGER NOT NULL,
			diverged INTEGER NOT NULL,
			output TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record - сохраняет запись о рендере. Возвращает ее ID
func (r *repo) Record(ctx context.Context, e *model.RenderLogEntry) (int64, error) {
	names, err := json.Marshal(e.Names)
	if err != nil {
		return 0, err
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	sqlStr, args, err := sq.Insert(table).
		Columns(colNames, colWinner, colLanded, colFrames, colVirtual, colDiverged, colOutput, colCreated).
		Values(string(names), e.Winner, e.Landed, e.Frames, e.Virtual.Milliseconds(), e.Diverged, e.Output, created.UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent - последние рендеры, новые первыми
func (r *repo) Recent(ctx context.Context, limit int) ([]model.RenderLogEntry, error) {
	query := sq.Select(colID, colNames, colWinner, colLanded, colFrames, colVirtual, colDiverged, colOutput, colCreated).
		From(table).
		OrderBy(colID + " DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RenderLogEntry
	for rows.Next() {
		var (
			e         model.RenderLogEntry
			names     string
			virtualMS int64
			created   string
		)
		if err := rows.Scan(&e.ID, &names, &e.Winner, &e.Landed, &e.Frames, &virtualMS, &e.Diverged, &e.Output, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(names), &e.Names); err != nil {
			return nil, err
		}
		e.Virtual = time.Duration(virtualMS) * time.Millisecond
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repo) Close() error {
	return r.db.Close()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	budget_id TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	success INTEGER NOT NULL,
	error_code TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	diagnostic BLOB
);
CREATE INDEX IF NOT EXISTS calls_started_at ON calls (started_at);`

const (
	journalDirMode = 0o700
	// Fixed-width so started_at sorts lexically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store appends invocation records to a local SQLite file. Records are
// operator diagnostics and never reach tool callers.
type Store struct {
	db *sql.DB
}

var _ ports.CallJournal = (*Store)(nil)

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), journalDirMode); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, record domain.CallRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var diagnostic []byte
	if len(record.Diagnostic) > 0 {
		encoded, err := json.Marshal(record.Diagnostic)
		if err != nil {
			return fmt.Errorf("encode diagnostic for call %s: %w", record.ID, err)
		}
		diagnostic = encoded
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO calls (id, method, budget_id, started_at, duration_ms, success, error_code, message, diagnostic)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Method,
		record.BudgetID,
		record.StartedAt.UTC().Format(timeLayout),
		record.Duration.Milliseconds(),
		boolToInt(record.Success),
		record.ErrorCode,
		record.Message,
		diagnostic,
	)
	if err != nil {
		return fmt.Errorf("insert call %s: %w", record.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, method, budget_id, started_at, duration_ms, success, error_code, message, diagnostic
FROM calls
ORDER BY started_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var records []domain.CallRecord
	for rows.Next() {
		var (
			record     domain.CallRecord
			startedAt  string
			durationMS int64
			success    int
			diagnostic []byte
		)
		if err := rows.Scan(&record.ID, &record.Method, &record.BudgetID, &startedAt, &durationMS, &success, &record.ErrorCode, &record.Message, &diagnostic); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}

		record.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse start time of call %s: %w", record.ID, err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		record.Success = success != 0

		if len(diagnostic) > 0 {
			if err := json.Unmarshal(diagnostic, &record.Diagnostic); err != nil {
				return nil, fmt.Errorf("decode diagnostic of call %s: %w", record.ID, err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal rows: %w", err)
	}

	return records, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mnemocron/telestats/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			analyzed_at TEXT NOT NULL,
			chat_name TEXT NOT NULL,
			chat_id INTEGER NOT NULL,
			since TEXT NOT NULL,
			keywords TEXT NOT NULL,
			name_a TEXT NOT NULL,
			name_b TEXT NOT NULL,
			messages_a INTEGER NOT NULL,
			messages_b INTEGER NOT NULL,
			words_a INTEGER NOT NULL,
			words_b INTEGER NOT NULL,
			chars_a INTEGER NOT NULL,
			chars_b INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_chat_name ON runs(chat_name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed analysis run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.RunSummary) (int64, error) {
	since := ""
	if !run.Since.IsZero() {
		since = run.Since.Format(time.RFC3339Nano)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (analyzed_at, chat_name, chat_id, since, keywords, name_a, name_b, messages_a, messages_b, words_a, words_b, chars_a, chars_b)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.AnalyzedAt.Format(time.RFC3339Nano),
		run.ChatName,
		run.ChatID,
		since,
		strings.Join(run.Keywords, ";"),
		run.NameA,
		run.NameB,
		run.MessagesA,
		run.MessagesB,
		run.WordsA,
		run.WordsB,
		run.CharsA,
		run.CharsB,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns stored runs, newest first. A non-empty chatName
// filters to that chat; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, chatName string, limit int) ([]model.RunSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if chatName != "" {
		clauses = append(clauses, "chat_name = ?")
		args = append(args, chatName)
	}
	query := fmt.Sprintf(`SELECT id, analyzed_at, chat_name, chat_id, since, keywords, name_a, name_b, messages_a, messages_b, words_a, words_b, chars_a, chars_b
		FROM runs
		WHERE %s
		ORDER BY analyzed_at DESC`, strings.Join(clauses, " AND "))
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		var analyzedAt, since, keywords string
		if err := rows.Scan(&run.RunID, &analyzedAt, &run.ChatName, &run.ChatID, &since, &keywords,
			&run.NameA, &run.NameB, &run.MessagesA, &run.MessagesB, &run.WordsA, &run.WordsB, &run.CharsA, &run.CharsB); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, analyzedAt)
		if err != nil {
			return nil, err
		}
		run.AnalyzedAt = parsed
		if since != "" {
			parsedSince, err := time.Parse(time.RFC3339Nano, since)
			if err != nil {
				return nil, err
			}
			run.Since = parsedSince
		}
		if keywords != "" {
			run.Keywords = strings.Split(keywords, ";")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

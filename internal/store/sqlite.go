package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// SQLiteStore implements Store using SQLite. The index is still loaded and
// saved as a whole; the database only replaces the JSON file and the
// content files.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath, now: time.Now}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS index_meta (
		id             INTEGER PRIMARY KEY CHECK (id = 1),
		created        TEXT NOT NULL,
		last_updated   TEXT NOT NULL,
		total_memories INTEGER NOT NULL DEFAULT 0,
		next_id        INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS memories (
		seq          INTEGER NOT NULL,
		memory_id    TEXT PRIMARY KEY,
		file_path    TEXT NOT NULL,
		category     TEXT NOT NULL,
		tags         TEXT,
		summary      TEXT NOT NULL,
		confidence   REAL NOT NULL,
		access_count INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'active',
		created      TEXT NOT NULL,
		updated      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_seq ON memories(seq);

	CREATE TABLE IF NOT EXISTS contents (
		file_path TEXT PRIMARY KEY,
		body      TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Location() string { return s.dbPath }

func (s *SQLiteStore) Load(ctx context.Context) (*model.Index, error) {
	idx := &model.Index{Memories: []model.Record{}}
	m := &idx.Metadata

	err := s.db.QueryRowContext(ctx,
		`SELECT created, last_updated, total_memories, next_id FROM index_meta WHERE id = 1`).
		Scan(&m.Created, &m.LastUpdated, &m.TotalMemories, &m.NextID)
	if errors.Is(err, sql.ErrNoRows) {
		fresh := model.NewIndex(s.now())
		if err := s.writeIndex(ctx, fresh); err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT memory_id, file_path, category, tags, summary, confidence,
		        access_count, status, created, updated
		 FROM memories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("read memories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		idx.Memories = append(idx.Memories, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return idx, nil
}

func (s *SQLiteStore) Save(ctx context.Context, idx *model.Index) error {
	idx.Metadata.LastUpdated = model.FormatTime(s.now())
	if err := s.writeIndex(ctx, idx); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) writeIndex(ctx context.Context, idx *model.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	m := idx.Metadata
	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_meta (id, created, last_updated, total_memories, next_id)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   created = excluded.created,
		   last_updated = excluded.last_updated,
		   total_memories = excluded.total_memories,
		   next_id = excluded.next_id`,
		m.Created, m.LastUpdated, m.TotalMemories, m.NextID)
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM memories`); err != nil {
		return fmt.Errorf("clear memories: %w", err)
	}

	for i, r := range idx.Memories {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, _ := json.Marshal(tags)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO memories (seq, memory_id, file_path, category, tags, summary,
			                       confidence, access_count, status, created, updated)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.ID, r.FilePath, r.Category, string(tagsJSON), r.Summary,
			r.Confidence, r.AccessCount, r.Status, r.Created, r.Updated)
		if err != nil {
			return fmt.Errorf("insert memory %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ReadContent(ctx context.Context, locator string) (string, error) {
	if err := ValidateLocator(locator); err != nil {
		return "", err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM contents WHERE file_path = ?`, locator).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w at %s", ErrContentNotFound, locator)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return body, nil
}

func (s *SQLiteStore) WriteContent(ctx context.Context, locator, content string) error {
	if err := ValidateLocator(locator); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contents (file_path, body) VALUES (?, ?)
		 ON CONFLICT(file_path) DO UPDATE SET body = excluded.body`,
		locator, content)
	if err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (model.Record, error) {
	var r model.Record
	var tagsJSON sql.NullString

	err := row.Scan(
		&r.ID, &r.FilePath, &r.Category, &tagsJSON, &r.Summary, &r.Confidence,
		&r.AccessCount, &r.Status, &r.Created, &r.Updated,
	)
	if err != nil {
		return r, err
	}

	r.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return r, fmt.Errorf("parse tags of %s: %w", r.ID, err)
		}
	}

	return r, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists models in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and applies the
// schema. ":memory:" gives an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite allows one writer; a single pooled connection also keeps
	// in-memory databases on the same handle
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		return err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_models_kind ON models(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveModel(ctx context.Context, m Model) (string, error) {
	if !m.Kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, m.Kind)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (id, name, kind, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   kind = excluded.kind,
		   payload = excluded.payload`,
		m.ID, m.Name, string(m.Kind), m.Payload, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("save model: %w", err)
	}
	return m.ID, nil
}

func (s *SQLiteStore) Model(ctx context.Context, id string) (Model, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, payload, created_at FROM models WHERE id = ?`, id)

	m, err := scanModel(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Model{}, fmt.Errorf("%w: %q", ErrModelNotFound, id)
	}
	if err != nil {
		return Model{}, fmt.Errorf("load model: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) Models(ctx context.Context) ([]Model, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, payload, created_at FROM models ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		m, err := scanModel(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteModel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrModelNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func scanModel(scan func(dest ...any) error) (Model, error) {
	var m Model
	var kind string
	if err := scan(&m.ID, &m.Name, &kind, &m.Payload, &m.CreatedAt); err != nil {
		return Model{}, err
	}
	m.Kind = Kind(kind)
	return m, nil
}

var _ Store = (*SQLiteStore)(nil)

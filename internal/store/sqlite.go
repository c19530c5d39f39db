package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS %q (
	record_key TEXT PRIMARY KEY,
	attrs TEXT NOT NULL
);
`

// SQLiteStore keeps records in a local sqlite database, one table per logical
// table, each row holding the key plus a JSON attribute blob. Used when the
// service runs without a DynamoDB endpoint.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures parent
// directories exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// reasonable defaults for sqlite with concurrent readers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db}, nil
}

// Init creates the backing table for the given logical table name.
func (s *SQLiteStore) Init(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createRecordsTable, table)); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, table, key string, attrs map[string]string) error {
	stored := make(map[string]string, len(attrs)+1)
	for name, value := range attrs {
		stored[name] = value
	}
	stored[KeyAttribute] = key

	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode attrs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %q (record_key, attrs) VALUES (?, ?)
ON CONFLICT(record_key) DO UPDATE SET attrs = excluded.attrs`, table),
		key, string(blob),
	)
	if err != nil {
		return fmt.Errorf("put record: %w", sqliteClassify(err))
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, table, key string) (map[string]string, bool, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT attrs FROM %q WHERE record_key = ?`, table), key)

	var blob string
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get record: %w", sqliteClassify(err))
	}

	attrs, err := decodeAttrs(blob)
	if err != nil {
		return nil, false, err
	}
	return attrs, true, nil
}

func (s *SQLiteStore) Scan(ctx context.Context, table string) ([]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT attrs FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", sqliteClassify(err))
	}
	defer rows.Close()

	var records []map[string]string
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		attrs, err := decodeAttrs(blob)
		if err != nil {
			return nil, err
		}
		records = append(records, attrs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", sqliteClassify(err))
	}
	return records, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, table, key string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %q WHERE record_key = ?`, table), key)
	if err != nil {
		return fmt.Errorf("delete record: %w", sqliteClassify(err))
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)

func decodeAttrs(blob string) (map[string]string, error) {
	var attrs map[string]string
	if err := json.Unmarshal([]byte(blob), &attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return attrs, nil
}

func sqliteClassify(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "no such table") {
		return fmt.Errorf("%w: %v", ErrTableNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

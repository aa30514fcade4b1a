package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteIndex is the checksum index used when no Postgres database is
// configured. It keeps duplicate detection working across runs with
// nothing but a local file.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLiteIndex opens (or creates) the index file and its schema.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open checksum index: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS file_checksums (
		checksum TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		imported_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create checksum table: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

func (i *SQLiteIndex) Seen(ctx context.Context, checksum string) (bool, error) {
	var one int
	err := i.db.QueryRowContext(ctx,
		`SELECT 1 FROM file_checksums WHERE checksum = ?`, checksum,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checksum lookup: %w", err)
	}
	return true, nil
}

func (i *SQLiteIndex) Add(ctx context.Context, checksum, fileName string) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO file_checksums (checksum, file_name) VALUES (?, ?)`,
		checksum, fileName,
	)
	if err != nil {
		return fmt.Errorf("record checksum: %w", err)
	}
	return nil
}

func (i *SQLiteIndex) Close() error {
	return i.db.Close()
}

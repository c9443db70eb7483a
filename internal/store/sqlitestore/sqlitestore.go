// Package sqlitestore keeps the vault in a SQLite database (modernc.org/sqlite,
// no cgo). The schema is managed by goose with embedded migrations.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/dbx"
	"github.com/dmitrijs2005/spm/internal/store"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, "migrations")
}

// Store is a SQLite-backed store.Store.
type Store struct {
	conn *sql.DB
	db   dbx.DBTX
}

var _ store.Store = (*Store)(nil)

// New wraps an open database whose schema is already migrated.
func New(conn *sql.DB) *Store {
	return &Store{conn: conn, db: conn}
}

// Open opens the database file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent and
	// serializes writers
	conn.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return New(conn), nil
}

func (s *Store) ReadBlob(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %s: %w", name, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob[%s]: %w", name, err)
	}
	return data, nil
}

func (s *Store) WriteBlob(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data
	`, name, data)
	if err != nil {
		return fmt.Errorf("failed to set blob[%s]: %w", name, err)
	}
	return nil
}

func (s *Store) PutRecord(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, body) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, key, body)
	if err != nil {
		return fmt.Errorf("failed to set record[%s]: %w", key, err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (store.Record, error) {
	var r store.Record
	err := rows.Scan(&r.Key, &r.Body)
	return r, err
}

func (s *Store) Records(ctx context.Context) ([]store.Record, error) {
	records, err := dbx.QueryAll(ctx, s.db, scanRecord, `SELECT key, body FROM records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

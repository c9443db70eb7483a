// Package pgstore keeps the vault in PostgreSQL through the pgx stdlib
// driver. Writes run inside a transaction (dbx.WithTx).
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/dbx"
	"github.com/dmitrijs2005/spm/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "migrations")
}

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open database whose schema is already migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with dsn and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return New(db), nil
}

func (s *Store) ReadBlob(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %s: %w", name, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return data, nil
}

func (s *Store) WriteBlob(ctx context.Context, name string, data []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO blobs (name, data) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data
		`, name, data)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (s *Store) PutRecord(ctx context.Context, key string, body []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO records (key, body) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
		`, key, body)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func scanRecord(rows *sql.Rows) (store.Record, error) {
	var r store.Record
	err := rows.Scan(&r.Key, &r.Body)
	return r, err
}

func (s *Store) Records(ctx context.Context) ([]store.Record, error) {
	records, err := dbx.QueryAll(ctx, s.db, scanRecord, `SELECT key, body FROM records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

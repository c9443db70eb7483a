// Package fsstore keeps the vault in a directory: blobs under a hidden key
// directory and one file per account record at the top level.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/filex"
	"github.com/dmitrijs2005/spm/internal/store"
)

const filePerm = 0o600

// Store is a directory-backed store.Store.
type Store struct {
	root   string
	keyDir string
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the store rooted at root.
func New(root string) (*Store, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	keyDir, err := filex.EnsureSubDir(abs, common.KeyDirName)
	if err != nil {
		return nil, err
	}
	return &Store{root: abs, keyDir: keyDir}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid store key %q", name)
	}
	return nil
}

func (s *Store) ReadBlob(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.keyDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", name, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) WriteBlob(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(filepath.Join(s.keyDir, name), data, filePerm); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

func (s *Store) PutRecord(ctx context.Context, key string, body []byte) error {
	if err := checkName(key); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(filepath.Join(s.root, key), body, filePerm); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

// Records reads every regular top-level file. Hidden entries (the key
// directory, .git, temp files) are skipped.
func (s *Store) Records(ctx context.Context) ([]store.Record, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	result := make([]store.Record, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		body, err := os.ReadFile(filepath.Join(s.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read record %s: %w", e.Name(), err)
		}
		result = append(result, store.Record{Key: e.Name(), Body: body})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (s *Store) Close() error {
	return nil
}

// Package store defines the byte store the vault keeps its key blobs and
// account records in. Backends live in the fsstore, sqlitestore and pgstore
// subpackages.
package store

import (
	"context"
	"regexp"
	"strings"
)

// Record is one stored account record, addressed by its sanitized key.
type Record struct {
	Key  string
	Body []byte
}

// Store persists named blobs and account records.
//
// ReadBlob returns common.ErrorNotFound when the blob does not exist.
// PutRecord replaces an existing record with the same key. Records returns
// every record ordered by key.
type Store interface {
	ReadBlob(ctx context.Context, name string) ([]byte, error)
	WriteBlob(ctx context.Context, name string, data []byte) error
	PutRecord(ctx context.Context, key string, body []byte) error
	Records(ctx context.Context) ([]Record, error)
	Close() error
}

// invalidChars are the characters some file system rejects in a file name:
// control characters plus " * / : < > ? \ |.
const invalidChars = `\x00-\x1f"*/:<>?\\|`

var invalidName = regexp.MustCompile(`([` + invalidChars + `]*\.+$)|([` + invalidChars + `]+)`)

// SanitizeName maps an account name to a storage key. Runs of invalid
// characters, and trailing dots together with the invalid characters before
// them, become a single '_'. A leading dot also becomes '_' so the record is
// never mistaken for a hidden entry.
func SanitizeName(name string) string {
	key := invalidName.ReplaceAllString(name, "_")
	if strings.HasPrefix(key, ".") {
		key = "_" + key[1:]
	}
	return key
}

// Package syncer mirrors the vault to somewhere else after it changes. Sync
// is best-effort: callers log a failed Push and carry on.
package syncer

import "context"

// Syncer publishes the current state of a store.
type Syncer interface {
	// Init prepares the destination once, right after the vault is created.
	Init(ctx context.Context) error

	// Push publishes everything written so far. message describes the
	// change.
	Push(ctx context.Context, message string) error
}

// Noop is the Syncer used when synchronization is off.
type Noop struct{}

func (Noop) Init(ctx context.Context) error                 { return nil }
func (Noop) Push(ctx context.Context, message string) error { return nil }

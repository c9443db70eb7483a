// Package logging defines the context-aware logger used by the store, sync
// and vault layers, and its log/slog implementation.
package logging

import "context"

// Logger is a structured logger. args are key-value pairs:
//
//	log.Info(ctx, "account added", "name", name, "length", length)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}

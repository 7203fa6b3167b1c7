// Package logging defines the structured-logging interface used across the
// ledger and its log/slog implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "car sold", "vin", vin, "sales_number", number)
type Logger interface {
	// Debug logs lookups and other high-volume details.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs committed mutations.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

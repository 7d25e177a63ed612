// Package tokens persists the bearer credential in the local client
// database. It is the Go counterpart of the browser's localStorage slot:
// one primary key plus several legacy fallback keys left behind by older
// builds.
package tokens

import "context"

// Repository is the durable key/value store for bearer tokens.
type Repository interface {
	// Get returns the value stored under key, or "" when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value stored under key.
	Delete(ctx context.Context, key string) error

	// ClearAll removes every known token key in one transaction, so a
	// half-finished logout can never leave a legacy key behind.
	ClearAll(ctx context.Context) error

	// FirstValid scans the known keys in preference order and returns the
	// first value that is not a placeholder, or "" when none qualifies.
	FirstValid(ctx context.Context) (string, error)
}

// Package common contains shared constants and sentinel errors used across
// tapectl components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrNoToken means no usable credential exists in storage.
	ErrNoToken = errors.New("no authentication token found")
)

// Package kv defines the durable key-value port the expense store persists
// through, and hosts its backends in sub-packages.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv store closed")

// Ports for durable storage adapters.
type (
	Reader interface {
		// Get returns the value stored under key. ok is false when the key
		// has never been written.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
	}

	Writer interface {
		// Set replaces the value stored under key.
		Set(ctx context.Context, key, value string) error
	}

	Store interface {
		Reader
		Writer
		Close() error
	}
)

package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a client with the requested id does not exist.
	ErrNotFound = errors.New("requested record not found")

	// ErrNotPersistable is returned when the in-memory collection could not be
	// written to durable storage. The in-memory change is kept.
	ErrNotPersistable = errors.New("collection could not be persisted")

	// ErrRecordNotFound is returned by a RecordStore when no value exists for a key.
	ErrRecordNotFound = errors.New("no stored record for key")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")
)

// RecordStore is durable key/value storage holding one serialized document per key.
// Put overwrites the whole value.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

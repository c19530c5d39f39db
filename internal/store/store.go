package store

import (
	"context"
	"errors"
)

// KeyAttribute names the primary-key attribute present in every record.
const KeyAttribute = "userId"

var (
	// ErrUnavailable indicates the backend could not serve the request.
	ErrUnavailable = errors.New("store unavailable")
	// ErrTableNotFound indicates the addressed table does not exist.
	ErrTableNotFound = errors.New("table not found")
)

// Store is the durable key-value backend behind the repository. Records are
// string-keyed, string-valued attribute maps addressed by table name and
// primary key. Absence is reported through the found flag, never as an error,
// and Delete is idempotent.
type Store interface {
	// Put writes or overwrites the record under key. The attribute map
	// includes the key attribute itself.
	Put(ctx context.Context, table, key string, attrs map[string]string) error
	// Get returns the record's attributes, or found=false when absent.
	Get(ctx context.Context, table, key string) (map[string]string, bool, error)
	// Scan returns every record in the table. Order is backend-defined and
	// the result is unbounded; acceptable only at this system's scale.
	Scan(ctx context.Context, table string) ([]map[string]string, error)
	// Delete removes the record under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, table, key string) error
}

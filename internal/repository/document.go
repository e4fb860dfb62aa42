package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists at the given identifier.
var ErrNotFound = errors.New("document not found")

// Document is a stored record as the document store returns it, identifier
// included under the "id" key as a 24-character hex string.
type Document = map[string]any

// DocumentRepository defines data access for documents of any registered
// table. No business logic here, strictly persistence operations. The store
// owns identifier assignment, uniqueness and field validation.
type DocumentRepository interface {
	// Create persists doc into table, assigns its identifier, and
	// returns the stored record.
	Create(ctx context.Context, table string, doc any) (Document, error)

	// FindAll returns every record of table matching filter (exact field
	// match, nil for no filter). Order is not guaranteed.
	FindAll(ctx context.Context, table string, filter map[string]any) ([]Document, error)

	// FindByID returns the record at id, or ErrNotFound.
	FindByID(ctx context.Context, table, id string) (Document, error)

	// UpdateByID merges patch into the record at id field by field and
	// returns the updated record, or ErrNotFound. Fields absent from
	// patch keep their prior values.
	UpdateByID(ctx context.Context, table, id string, patch map[string]any) (Document, error)

	// DeleteByID removes the record at id, or returns ErrNotFound.
	DeleteByID(ctx context.Context, table, id string) error

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}

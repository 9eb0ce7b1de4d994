package blob

import (
	"context"
	"errors"

	"github.com/gridbin/service/internal/chunk"
)

// RecordStore persists blob metadata. Swap implementations by changing the
// concrete type injected at startup; the Postgres implementation is the
// default.
type RecordStore interface {
	// Insert persists a complete record. It must fail with
	// ErrIdentityConflict if the id or filename is already taken.
	Insert(ctx context.Context, rec *Record) error
	// Get fetches a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Delete removes a record by id, or ErrNotFound.
	Delete(ctx context.Context, id string) error
	// IdentityTaken reports whether id or filename is already in use.
	IdentityTaken(ctx context.Context, id, filename string) (bool, error)
}

// ChunkStore persists blob content as ordered chunks. Implementations must
// write each chunk durably before Put returns and must tolerate DeleteAll on
// identifiers with no chunks.
type ChunkStore interface {
	// Put writes one chunk of the blob identified by blobID.
	Put(ctx context.Context, blobID string, c chunk.Chunk) error
	// Open returns the blob's chunks in ascending sequence order. count is
	// the number of chunks the record says exist; backends that address
	// chunks individually use it to tell a complete sequence from a
	// truncated one.
	Open(ctx context.Context, blobID string, count int) (chunk.Source, error)
	// DeleteAll removes every chunk belonging to blobID.
	DeleteAll(ctx context.Context, blobID string) error
}

// ErrIdentityConflict signals a unique-key collision on id or filename at
// insert time. The service maps it to ErrIdentifierExhausted after cleaning
// up the already-written chunks.
var ErrIdentityConflict = errors.New("id or filename already taken")

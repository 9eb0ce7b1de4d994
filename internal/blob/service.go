package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/gridbin/service/internal/chunk"
)

// maxIdentityAttempts bounds how many fresh random identities Create probes
// before giving up with ErrIdentifierExhausted.
const maxIdentityAttempts = 5

// Service is the blob store engine. Create, OpenRead and Delete are the only
// writers and readers of blob state; operations on different identifiers are
// independent and safe to run concurrently.
type Service struct {
	records   RecordStore
	chunks    ChunkStore
	chunkSize int
	now       func() time.Time
}

// NewService creates a blob Service writing chunkSize-byte chunks.
func NewService(records RecordStore, chunks ChunkStore, chunkSize int) *Service {
	return &Service{
		records:   records,
		chunks:    chunks,
		chunkSize: chunkSize,
		now:       time.Now,
	}
}

// Create streams body into chunked storage and returns the new record. The
// record becomes visible only after every chunk is durable; any failure while
// reading or persisting chunks removes what was written and returns
// ErrWriteFailed. Identity collisions are retried with fresh randomness
// before the body is touched, since the stream can only be consumed once.
func (s *Service) Create(ctx context.Context, originalName, contentType string, body io.Reader) (*Record, error) {
	id, filename, err := s.allocateIdentity(ctx, originalName)
	if err != nil {
		return nil, err
	}

	enc, err := chunk.NewEncoder(body, s.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	var size int64
	count := 0
	for {
		c, err := enc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.cleanup(ctx, id)
			return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		if err := s.chunks.Put(ctx, id, c); err != nil {
			s.cleanup(ctx, id)
			return nil, fmt.Errorf("%w: persist chunk %d: %v", ErrWriteFailed, c.Seq, err)
		}
		size += int64(len(c.Data))
		count++
	}

	rec := &Record{
		ID:           id,
		Filename:     filename,
		OriginalName: originalName,
		ContentType:  contentType,
		SizeBytes:    size,
		ChunkCount:   count,
		UploadDate:   s.now().UTC(),
		IsImage:      IsImageType(contentType),
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		s.cleanup(ctx, id)
		if errors.Is(err, ErrIdentityConflict) {
			// Lost a race despite the availability probe.
			return nil, ErrIdentifierExhausted
		}
		return nil, fmt.Errorf("%w: persist record: %v", ErrWriteFailed, err)
	}
	return rec, nil
}

// OpenRead returns the blob's content as a lazy, forward-only stream. The
// caller owns the stream and must close it; closing early releases the
// underlying chunk source without draining it.
func (s *Service) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.chunks.Open(ctx, id, rec.ChunkCount)
	if err != nil {
		return nil, fmt.Errorf("open chunks for %s: %w", id, err)
	}
	return chunk.NewReader(src, rec.ChunkCount), nil
}

// Delete removes the blob's chunks first, then its record, so a record never
// outlives its chunks. An interruption between the two steps leaves a
// visible-but-unreadable record for a consistency sweep to reclaim; it never
// leaves unowned chunks.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.records.Get(ctx, id); err != nil {
		return err
	}
	if err := s.chunks.DeleteAll(ctx, id); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", id, err)
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// allocateIdentity generates a fresh random id and filename and probes the
// record store for availability, retrying a bounded number of times.
func (s *Service) allocateIdentity(ctx context.Context, originalName string) (id, filename string, err error) {
	for attempt := 0; attempt < maxIdentityAttempts; attempt++ {
		id, filename, err = newIdentity(originalName)
		if err != nil {
			return "", "", fmt.Errorf("generate identity: %w", err)
		}
		taken, err := s.records.IdentityTaken(ctx, id, filename)
		if err != nil {
			return "", "", fmt.Errorf("probe identity: %w", err)
		}
		if !taken {
			return id, filename, nil
		}
	}
	return "", "", ErrIdentifierExhausted
}

// newIdentity draws 16 bytes from a cryptographically strong source; the hex
// encoding is the id and, with the original file's extension appended
// verbatim, the generated filename.
func newIdentity(originalName string) (id, filename string, err error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", "", err
	}
	id = hex.EncodeToString(buf[:])
	return id, id + filepath.Ext(originalName), nil
}

// cleanupTimeout bounds how long chunk cleanup may run after a failed create.
const cleanupTimeout = 30 * time.Second

// cleanup removes all chunks written under a never-published identifier. The
// request context is typically already canceled when this runs (client
// disconnect is the main way a create fails), so it detaches from ctx
// instead of inheriting its cancellation.
func (s *Service) cleanup(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := s.chunks.DeleteAll(ctx, id); err != nil {
		log.Printf("cleanup chunks for %s: %v", id, err)
	}
}

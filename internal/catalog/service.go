package catalog

import (
	"context"

	"github.com/gridbin/service/internal/blob"
)

// Store is the read-only record access the catalog needs. Satisfied by
// *Repository; tests inject an in-memory fake.
type Store interface {
	List(ctx context.Context) ([]blob.Record, error)
	FindByFilename(ctx context.Context, filename string) (*blob.Record, error)
	FindByID(ctx context.Context, id string) (*blob.Record, error)
}

// Service answers metadata queries. Every returned record gets IsImage
// recomputed from its content type, so the flag can never go stale.
type Service struct {
	store Store
}

// NewService creates a new catalog Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListAll returns all records, oldest first. An empty catalog yields an
// empty slice, not an error.
func (s *Service) ListAll(ctx context.Context) ([]blob.Record, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].IsImage = blob.IsImageType(recs[i].ContentType)
	}
	return recs, nil
}

// FindByFilename returns one record by generated filename, or blob.ErrNotFound.
func (s *Service) FindByFilename(ctx context.Context, filename string) (*blob.Record, error) {
	rec, err := s.store.FindByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	rec.IsImage = blob.IsImageType(rec.ContentType)
	return rec, nil
}

// FindByID returns one record by id, or blob.ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id string) (*blob.Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.IsImage = blob.IsImageType(rec.ContentType)
	return rec, nil
}

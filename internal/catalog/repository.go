// Package catalog is the metadata-only index over stored blobs. It queries
// the files table directly on every call and never touches chunk data.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridbin/service/internal/blob"
)

const recordColumns = `id, filename, original_name, content_type, size_bytes, chunk_count, upload_date`

// Repository handles read-only catalog queries against Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns all records ordered by upload date ascending, id as tiebreak.
func (r *Repository) List(ctx context.Context) ([]blob.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM files ORDER BY upload_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var recs []blob.Record
	for rows.Next() {
		var rec blob.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return recs, nil
}

// FindByFilename fetches one record by its generated filename.
func (r *Repository) FindByFilename(ctx context.Context, filename string) (*blob.Record, error) {
	return r.findOne(ctx, `SELECT `+recordColumns+` FROM files WHERE filename = $1`, filename)
}

// FindByID fetches one record by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*blob.Record, error) {
	return r.findOne(ctx, `SELECT `+recordColumns+` FROM files WHERE id = $1`, id)
}

func (r *Repository) findOne(ctx context.Context, query, arg string) (*blob.Record, error) {
	rec := &blob.Record{}
	err := scanRecord(r.db.QueryRow(ctx, query, arg), rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row, rec *blob.Record) error {
	return row.Scan(&rec.ID, &rec.Filename, &rec.OriginalName, &rec.ContentType,
		&rec.SizeBytes, &rec.ChunkCount, &rec.UploadDate)
}

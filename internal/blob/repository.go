package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridbin/service/internal/chunk"
)

// Repository implements RecordStore and ChunkStore on Postgres. Records live
// in the files table, chunk payloads in file_chunks as bytea rows keyed by
// (blob_id, seq). There is no foreign key between them: chunks are written
// before their record exists.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert persists a complete record. Unique-key violations on id or filename
// map to ErrIdentityConflict.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO files (id, filename, original_name, content_type, size_bytes, chunk_count, upload_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Filename, rec.OriginalName, rec.ContentType,
		rec.SizeBytes, rec.ChunkCount, rec.UploadDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIdentityConflict
		}
		return fmt.Errorf("insert file record: %w", err)
	}
	return nil
}

// Get fetches a record by id.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	rec := &Record{}
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, original_name, content_type, size_bytes, chunk_count, upload_date
		 FROM files WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Filename, &rec.OriginalName, &rec.ContentType,
		&rec.SizeBytes, &rec.ChunkCount, &rec.UploadDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file record: %w", err)
	}
	rec.IsImage = IsImageType(rec.ContentType)
	return rec, nil
}

// Delete removes a record by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IdentityTaken reports whether the id or filename is already in use.
func (r *Repository) IdentityTaken(ctx context.Context, id, filename string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM files WHERE id = $1 OR filename = $2)`,
		id, filename,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("probe identity: %w", err)
	}
	return taken, nil
}

// Put writes one chunk row.
func (r *Repository) Put(ctx context.Context, blobID string, c chunk.Chunk) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO file_chunks (blob_id, seq, data) VALUES ($1, $2, $3)`,
		blobID, c.Seq, c.Data,
	)
	if err != nil {
		return fmt.Errorf("insert chunk %d: %w", c.Seq, err)
	}
	return nil
}

// Open returns the blob's chunks in ascending sequence order. The returned
// source streams rows lazily and holds a pooled connection until closed.
// count is unused: the row set ends naturally and the codec reader checks it
// against the record's chunk count.
func (r *Repository) Open(ctx context.Context, blobID string, count int) (chunk.Source, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seq, data FROM file_chunks WHERE blob_id = $1 ORDER BY seq`,
		blobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	return &rowSource{rows: rows}, nil
}

// DeleteAll removes every chunk belonging to blobID. Removing zero rows is
// not an error: empty blobs have no chunks.
func (r *Repository) DeleteAll(ctx context.Context, blobID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM file_chunks WHERE blob_id = $1`, blobID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// rowSource adapts a pgx row set to a chunk.Source.
type rowSource struct {
	rows pgx.Rows
}

func (s *rowSource) Next() (chunk.Chunk, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return chunk.Chunk{}, fmt.Errorf("iterate chunks: %w", err)
		}
		return chunk.Chunk{}, io.EOF
	}
	var c chunk.Chunk
	if err := s.rows.Scan(&c.Seq, &c.Data); err != nil {
		return chunk.Chunk{}, fmt.Errorf("scan chunk: %w", err)
	}
	return c, nil
}

func (s *rowSource) Close() error {
	s.rows.Close()
	return nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

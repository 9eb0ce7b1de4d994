package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gridbin/service/internal/chunk"
)

// MinioChunkStore implements ChunkStore on any S3-compatible backend. Each
// chunk is stored as its own object named <blobID>/<zero-padded seq>, so a
// blob's chunks list and sort in sequence order. Records stay in Postgres
// regardless of the chunk backend, keeping the catalog queryable.
type MinioChunkStore struct {
	client *minio.Client
	bucket string
}

// NewMinioChunkStore creates a MinIO client and ensures the bucket exists.
func NewMinioChunkStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioChunkStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("chunk store: created bucket %q", bucket)
	}

	return &MinioChunkStore{client: client, bucket: bucket}, nil
}

// Put writes one chunk object.
func (s *MinioChunkStore) Put(ctx context.Context, blobID string, c chunk.Chunk) error {
	key := chunkKey(blobID, c.Seq)
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(c.Data), int64(len(c.Data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Open returns a lazy source fetching chunk objects in sequence order, one
// GET per chunk, up to the record's chunk count. A missing object below that
// count is a truncated blob, not end of stream.
func (s *MinioChunkStore) Open(ctx context.Context, blobID string, count int) (chunk.Source, error) {
	return &objectSource{ctx: ctx, store: s, blobID: blobID, count: count}, nil
}

// DeleteAll removes every chunk object under the blob's prefix.
func (s *MinioChunkStore) DeleteAll(ctx context.Context, blobID string) error {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    blobID + "/",
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("list chunk objects: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %q: %w", obj.Key, err)
		}
	}
	return nil
}

func chunkKey(blobID string, seq int) string {
	return fmt.Sprintf("%s/%08d", blobID, seq)
}

// objectSource iterates chunk objects by sequence number, one GET per chunk.
type objectSource struct {
	ctx    context.Context
	store  *MinioChunkStore
	blobID string
	count  int
	seq    int
	closed bool
}

func (s *objectSource) Next() (chunk.Chunk, error) {
	if s.closed || s.seq >= s.count {
		return chunk.Chunk{}, io.EOF
	}
	key := chunkKey(s.blobID, s.seq)
	obj, err := s.store.client.GetObject(s.ctx, s.store.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return chunk.Chunk{}, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return chunk.Chunk{}, fmt.Errorf("%w: chunk object %q missing", chunk.ErrCorruptSequence, key)
		}
		return chunk.Chunk{}, fmt.Errorf("read object %q: %w", key, err)
	}
	c := chunk.Chunk{Seq: s.seq, Data: data}
	s.seq++
	return c, nil
}

func (s *objectSource) Close() error {
	s.closed = true
	return nil
}

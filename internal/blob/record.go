// Package blob implements the chunked blob store: identifier generation,
// streaming create/read/delete over pluggable record and chunk backends, and
// the HTTP upload/download adapter.
package blob

import (
	"errors"
	"time"
)

// Record is the metadata of one stored file. Content lives separately as an
// ordered chunk sequence keyed by ID; a Record only becomes visible once all
// of its chunks are durable.
type Record struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	ChunkCount   int       `json:"chunkCount"`
	UploadDate   time.Time `json:"uploadDate"`

	// IsImage is derived from ContentType on every read, never persisted.
	IsImage bool `json:"isImage"`
}

// ErrNotFound is returned when no record exists for the given id or filename.
var ErrNotFound = errors.New("file not found")

// ErrWriteFailed is returned when chunk persistence fails partway through an
// upload. All chunks written for the attempted identifier are removed before
// this is returned.
var ErrWriteFailed = errors.New("blob write failed")

// ErrIdentifierExhausted is returned when repeated attempts to allocate a
// unique id and filename all collided.
var ErrIdentifierExhausted = errors.New("identifier allocation exhausted")

// imageTypes are the content types served by the image endpoint.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// IsImageType reports whether a declared content type is served as an image.
func IsImageType(contentType string) bool {
	return imageTypes[contentType]
}

package blob

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridbin/service/internal/response"
)

// uploadFieldName is the multipart form field carrying the file.
const uploadFieldName = "file"

// FilenameResolver resolves a generated filename to its record. Satisfied by
// the catalog service; declared here so the handler does not depend on it.
type FilenameResolver interface {
	FindByFilename(ctx context.Context, filename string) (*Record, error)
}

// Handler holds HTTP handlers for upload, image download and deletion.
type Handler struct {
	svc      *Service
	resolver FilenameResolver
}

// NewHandler creates a new blob Handler.
func NewHandler(svc *Service, resolver FilenameResolver) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores a single multipart file (field "file") as a chunked blob and redirects to the listing.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Param			file	formData	file	true	"file to upload"
//	@Success		303
//	@Failure		400	{object}	response.ErrBody
//	@Failure		500	{object}	response.ErrBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	part, err := filePart(r)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "file field missing")
		return
	}
	defer part.Close()

	contentType := part.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rec, err := h.svc.Create(r.Context(), part.FileName(), contentType, part)
	if err != nil {
		log.Printf("upload %q failed: %v", part.FileName(), err)
		response.InternalError(w, "Upload failed")
		return
	}

	log.Printf("stored %s as %s (%d bytes, %d chunks)",
		rec.OriginalName, rec.Filename, rec.SizeBytes, rec.ChunkCount)
	response.Redirect(w, r, "/")
}

// filePart walks the multipart stream to the "file" field without buffering
// the body. Parts before it (other form fields) are drained and discarded.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, err // io.EOF: no file field present
		}
		if part.FormName() == uploadFieldName {
			return part, nil
		}
		part.Close()
	}
}

// Image godoc
//
//	@Summary		Download an image
//	@Description	Streams the raw bytes of an image blob with its stored content type.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			filename	path	string	true	"generated filename"
//	@Success		200
//	@Failure		404	{object}	response.ErrBody
//	@Router			/image/{filename} [get]
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	rec, err := h.resolver.FindByFilename(r.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "No file exists")
			return
		}
		response.InternalError(w, "lookup failed")
		return
	}
	if !rec.IsImage {
		response.NotFound(w, "Not an image")
		return
	}

	stream, err := h.svc.OpenRead(r.Context(), rec.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "No file exists")
			return
		}
		response.InternalError(w, "read failed")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", rec.ContentType)
	if _, err := io.Copy(w, stream); err != nil {
		// Headers are gone; all we can do is log.
		log.Printf("stream %s: %v", rec.Filename, err)
	}
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Removes a blob's chunks and record by id, then redirects to the listing.
//	@Tags			files
//	@Param			id	path	string	true	"blob id"
//	@Success		303
//	@Failure		404	{object}	response.ErrBody
//	@Router			/files/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "No file exists")
			return
		}
		log.Printf("delete %s failed: %v", id, err)
		response.Err(w, http.StatusNotFound, err.Error())
		return
	}
	response.Redirect(w, r, "/")
}

package catalog

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridbin/service/internal/blob"
	"github.com/gridbin/service/internal/response"
)

//go:embed templates
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Handler holds HTTP handlers for the listing page and metadata endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new catalog Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// indexData feeds the listing template. Files is nil for the empty state.
type indexData struct {
	Files []blob.Record
}

// Index renders the HTML listing with the upload form. Backend failures fall
// back to the empty state rather than an error page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListAll(r.Context())
	if err != nil {
		log.Printf("list files: %v", err)
		recs = nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, indexData{Files: recs}); err != nil {
		log.Printf("render index: %v", err)
	}
}

type filesBody struct {
	Files []blob.Record `json:"files"`
}

type fileBody struct {
	File *blob.Record `json:"file"`
}

// Files godoc
//
//	@Summary		List all files
//	@Description	Returns metadata for every stored blob. Backend failures return HTTP 200 with {"err": "No files exist"}.
//	@Tags			files
//	@Produce		json
//	@Success		200	{object}	filesBody
//	@Router			/files [get]
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListAll(r.Context())
	if err != nil {
		log.Printf("list files: %v", err)
		response.SoftErr(w, "No files exist")
		return
	}
	if recs == nil {
		recs = []blob.Record{}
	}
	response.JSON(w, http.StatusOK, filesBody{Files: recs})
}

// File godoc
//
//	@Summary		Get one file's metadata
//	@Description	Returns metadata for a single blob by its generated filename. A miss returns HTTP 200 with {"err": "No file exists"}.
//	@Tags			files
//	@Produce		json
//	@Param			filename	path		string	true	"generated filename"
//	@Success		200			{object}	fileBody
//	@Router			/files/{filename} [get]
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	rec, err := h.svc.FindByFilename(r.Context(), filename)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			log.Printf("find file %q: %v", filename, err)
		}
		response.SoftErr(w, "No file exists")
		return
	}
	response.JSON(w, http.StatusOK, fileBody{File: rec})
}

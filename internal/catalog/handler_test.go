package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbin/service/internal/blob"
)

func newTestRouter(store Store) chi.Router {
	h := NewHandler(NewService(store))
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/files", h.Files)
	r.Get("/files/{filename}", h.File)
	return r
}

func get(router chi.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestFilesListsAllMetadata(t *testing.T) {
	router := newTestRouter(&fakeStore{recs: someRecords()})

	rr := get(router, "/files")
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Files []blob.Record `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Files, 3)
	assert.Equal(t, "a1", payload.Files[0].ID)
	assert.True(t, payload.Files[0].IsImage)
	assert.Equal(t, "b2", payload.Files[1].ID)
	assert.False(t, payload.Files[1].IsImage)
}

func TestFilesEmptyCatalogIsNotAnError(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	rr := get(router, "/files")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"files": []}`, rr.Body.String())
}

func TestFilesBackendFailureSoftFails(t *testing.T) {
	router := newTestRouter(&fakeStore{err: errors.New("connection refused")})

	rr := get(router, "/files")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"err": "No files exist"}`, rr.Body.String())
}

func TestFileByFilename(t *testing.T) {
	router := newTestRouter(&fakeStore{recs: someRecords()})

	rr := get(router, "/files/a1.png")
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		File *blob.Record `json:"file"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.NotNil(t, payload.File)
	assert.Equal(t, "a1", payload.File.ID)
	assert.True(t, payload.File.IsImage)
}

func TestFileMissingSoftFails(t *testing.T) {
	router := newTestRouter(&fakeStore{recs: someRecords()})

	rr := get(router, "/files/doesnotexist")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"err": "No file exists"}`, rr.Body.String())
}

func TestIndexPopulatedState(t *testing.T) {
	router := newTestRouter(&fakeStore{recs: someRecords()})

	rr := get(router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "/image/a1.png")
	assert.NotContains(t, rr.Body.String(), "No files to display")
}

func TestIndexEmptyState(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	rr := get(router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No files to display")
}

func TestIndexBackendFailureFallsBackToEmptyState(t *testing.T) {
	router := newTestRouter(&fakeStore{err: errors.New("connection refused")})

	rr := get(router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "No files to display"))
}

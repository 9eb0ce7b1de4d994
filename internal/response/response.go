// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrBody is the error envelope every endpoint uses: {"err": "..."}.
type ErrBody struct {
	Err string `json:"err"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Err writes {"err": message} with the given status.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrBody{Err: message})
}

// SoftErr writes {"err": message} with HTTP 200. The listing and single-file
// endpoints degrade backend failures to this payload instead of an error
// status; clients depend on that.
func SoftErr(w http.ResponseWriter, message string) {
	Err(w, http.StatusOK, message)
}

// NotFound writes a 404 {"err": message} response.
func NotFound(w http.ResponseWriter, message string) {
	Err(w, http.StatusNotFound, message)
}

// InternalError writes a 500 {"err": message} response.
func InternalError(w http.ResponseWriter, message string) {
	Err(w, http.StatusInternalServerError, message)
}

// Redirect sends the browser back to the listing page after a mutation.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

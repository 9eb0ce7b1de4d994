package middleware

import "net/http"

// MethodOverride rewrites POST requests carrying `_method=DELETE` in the
// query string to DELETE. Plain HTML forms can only submit GET and POST, and
// the listing page's delete buttons need DELETE; no route accepts any other
// overridden method, so no other override is honored.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Query().Get("_method") == http.MethodDelete {
			r.Method = http.MethodDelete
		}
		next.ServeHTTP(w, r)
	})
}

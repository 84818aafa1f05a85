package controller

import (
	"net/http"
	"slices"
)

const (
	corsAllowHeaders  = "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Terminal-Id, X-Request-Id"
	corsExposeHeaders = "X-Request-Id"
	corsAllowMethods  = "POST, OPTIONS, GET, PUT, PATCH, DELETE"
)

// WithCORS returns a middleware answering cross-origin requests from the
// terminal screens. With no origins, or with "*", any origin is allowed and
// credentials are not; otherwise only listed origins are echoed back.
// OPTIONS preflight requests are answered with 204 No Content.
func WithCORS(next http.Handler, origins ...string) http.Handler {
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		switch origin := r.Header.Get("Origin"); {
		case anyOrigin:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}

package web

import (
	"net/http"
	"strings"

	"github.com/dowan1041/ocie-helper/internal/auth"
)

// SiteGateMiddleware redirects requests without a site grant to the gate
// page. It lets everything through when the site gate is disabled.
func SiteGateMiddleware(gate *auth.Gate, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Allowed(r, secret) {
				http.Redirect(w, r, "/gate", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// noDirListing hides directory indexes of a file server.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

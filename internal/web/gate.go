package web

import (
	"log/slog"
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/auth"
)

// GatePage handles GET /gate.
func (s *Server) GatePage(w http.ResponseWriter, r *http.Request) {
	if s.SiteGate.Allowed(r, s.SessionSecret) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "gate.html", &PageData{Title: "OCIE Helper"})
}

// GateSubmit handles POST /gate.
func (s *Server) GateSubmit(w http.ResponseWriter, r *http.Request) {
	passcode := r.FormValue("passcode")
	if passcode == "" {
		s.Templates.Render(w, "gate.html", &PageData{Title: "OCIE Helper", Error: "Passcode is required"})
		return
	}

	if !s.SiteGate.Verify(passcode) {
		slog.Warn("passcode rejected", "scope", auth.ScopeSite, "remote", r.RemoteAddr)
		s.Templates.Render(w, "gate.html", &PageData{Title: "OCIE Helper", Error: "Invalid passcode"})
		return
	}

	token, err := auth.GenerateToken(s.SessionSecret, auth.ScopeSite)
	if err != nil {
		slog.Error("failed to generate grant", "scope", auth.ScopeSite, "error", err)
		s.Templates.Render(w, "gate.html", &PageData{Title: "OCIE Helper", Error: "Verification failed"})
		return
	}

	auth.SetGrantCookie(w, auth.ScopeSite, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

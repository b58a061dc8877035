package api

import (
	"log/slog"
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/auth"
)

// AuthHandler handles the passcode endpoints.
type AuthHandler struct {
	SessionSecret string
}

type verifyRequest struct {
	Passcode string `json:"passcode"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Verify returns the handler for POST /api/auth/verify-{scope}. A correct
// passcode sets the grant cookie and returns the grant token.
func (h *AuthHandler) Verify(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonResponse(w, http.StatusBadRequest, verifyResponse{Error: "Invalid request body"})
			return
		}
		if req.Passcode == "" {
			jsonResponse(w, http.StatusBadRequest, verifyResponse{Error: "Passcode is required"})
			return
		}

		if !gate.Verify(req.Passcode) {
			slog.Warn("passcode rejected", "scope", gate.Scope(), "remote", r.RemoteAddr)
			jsonResponse(w, http.StatusUnauthorized, verifyResponse{Error: "Invalid passcode"})
			return
		}

		token, err := auth.GenerateToken(h.SessionSecret, gate.Scope())
		if err != nil {
			slog.Error("failed to generate grant", "scope", gate.Scope(), "error", err)
			jsonResponse(w, http.StatusInternalServerError, verifyResponse{Error: "Verification failed"})
			return
		}

		auth.SetGrantCookie(w, gate.Scope(), token)
		slog.Info("passcode accepted", "scope", gate.Scope())
		jsonResponse(w, http.StatusOK, verifyResponse{Success: true, Token: token})
	}
}

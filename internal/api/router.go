package api

import (
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/catalog"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *catalog.Service, sessionSecret string, siteGate, writeGate *auth.Gate) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{SessionSecret: sessionSecret}
	equipmentHandler := &EquipmentHandler{Catalog: svc}
	uploadHandler := &UploadHandler{Catalog: svc}

	requireSite := RequireGrant(siteGate, sessionSecret)
	requireWrite := RequireGrant(writeGate, sessionSecret)

	// Public: passcode checks.
	mux.HandleFunc("POST /api/auth/verify-site", authHandler.Verify(siteGate))
	mux.HandleFunc("POST /api/auth/verify-write", authHandler.Verify(writeGate))

	mux.Handle("GET /api/equipment", requireSite(http.HandlerFunc(equipmentHandler.List)))
	mux.Handle("POST /api/equipment", requireWrite(http.HandlerFunc(equipmentHandler.Create)))
	mux.Handle("POST /api/upload", requireWrite(http.HandlerFunc(uploadHandler.Upload)))

	return mux
}

package web

import (
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/catalog"
	webembed "github.com/dowan1041/ocie-helper/web"
)

// NewRouter creates the web page router with all page routes registered.
// If imageDir is set, locally stored images are served from it under
// /images/.
func NewRouter(svc *catalog.Service, sessionSecret string, siteGate, writeGate *auth.Gate, imageDir string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Catalog:       svc,
		Templates:     templates,
		SessionSecret: sessionSecret,
		SiteGate:      siteGate,
		WriteGate:     writeGate,
	}

	mux := http.NewServeMux()
	gated := SiteGateMiddleware(siteGate, sessionSecret)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	if imageDir != "" {
		images := http.StripPrefix("/images/", noDirListing(http.FileServer(http.Dir(imageDir))))
		mux.Handle("GET /images/", gated(images))
	}

	// Public routes.
	mux.HandleFunc("GET /gate", s.GatePage)
	mux.HandleFunc("POST /gate", s.GateSubmit)

	// Site-gated routes.
	mux.Handle("GET /{$}", gated(http.HandlerFunc(s.Index)))
	mux.Handle("POST /view/{event}", gated(http.HandlerFunc(s.ViewEvent)))
	mux.Handle("POST /passcode", gated(http.HandlerFunc(s.PasscodeSubmit)))
	mux.Handle("POST /items", gated(http.HandlerFunc(s.AddItemSubmit)))

	return mux, nil
}

package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
)

//go:embed web
var webFS embed.FS

// LandingHandler serves the single-page front end
type LandingHandler struct {
	page   []byte
	static http.Handler
	logger *logger.Logger
}

type landingData struct {
	StripePublishableKey string
}

// NewLandingHandler renders the landing page once with the publishable key
func NewLandingHandler(stripePublishableKey string, log *logger.Logger) (*LandingHandler, error) {
	tmpl, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, landingData{StripePublishableKey: stripePublishableKey}); err != nil {
		return nil, err
	}

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, err
	}

	return &LandingHandler{
		page:   buf.Bytes(),
		static: http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		logger: log,
	}, nil
}

// Index serves the landing page
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.page); err != nil {
		h.logger.WithError(err).Debug("Failed to write landing page")
	}
}

// Static serves the page's scripts and styles
func (h *LandingHandler) Static(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

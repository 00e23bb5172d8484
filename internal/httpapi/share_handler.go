package httpapi

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gerai-be/internal/catalog"
	"gerai-be/internal/logger"
	"gerai-be/internal/product"
)

// ShareHandler serves the SPA entry document. For product share links
// it injects og:/twitter: meta built from the live catalog snapshot so
// link previews show the product instead of the generic page.
type ShareHandler struct {
	store   *catalog.Store
	webDir  string
	baseURL string
}

func NewShareHandler(store *catalog.Store, webDir, baseURL string) *ShareHandler {
	return &ShareHandler{store: store, webDir: webDir, baseURL: baseURL}
}

func (h *ShareHandler) indexHTML() ([]byte, error) {
	return os.ReadFile(filepath.Join(h.webDir, "index.html"))
}

func (h *ShareHandler) findProduct(productID string) *product.Product {
	for _, p := range h.store.Products() {
		if p.ID == productID {
			return &p
		}
	}
	return nil
}

func productMeta(p *product.Product, pageURL string) string {
	description := ""
	if p.Description != nil {
		description = *p.Description
	}
	imageURL := ""
	if p.ImageURL != nil {
		imageURL = *p.ImageURL
	}

	var b strings.Builder
	write := func(attr, key, value string) {
		fmt.Fprintf(&b, "<meta %s=%q content=%q>\n", attr, key, html.EscapeString(value))
	}
	write("property", "og:type", "product")
	write("property", "og:title", p.Name)
	write("property", "og:description", description)
	write("property", "og:image", imageURL)
	write("property", "og:url", pageURL)
	write("name", "twitter:card", "summary_large_image")
	write("name", "twitter:title", p.Name)
	write("name", "twitter:description", description)
	write("name", "twitter:image", imageURL)
	return b.String()
}

func (h *ShareHandler) ProductPage(w http.ResponseWriter, r *http.Request) {
	doc, err := h.indexHTML()
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed reading index document", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	productID := chi.URLParam(r, "id")
	p := h.findProduct(productID)
	if p == nil {
		// Unknown or inactive product: plain document, still a 200 so
		// the SPA can render its own not-found view.
		h.writeHTML(w, doc)
		return
	}

	pageURL := h.baseURL + "/product/" + productID
	meta := productMeta(p, pageURL)
	page := strings.Replace(string(doc), "</head>", meta+"</head>", 1)
	h.writeHTML(w, []byte(page))
}

func (h *ShareHandler) SPA(w http.ResponseWriter, r *http.Request) {
	doc, err := h.indexHTML()
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed reading index document", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeHTML(w, doc)
}

func (h *ShareHandler) writeHTML(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

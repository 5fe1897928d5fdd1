// Package pages renders the informational site pages from embedded templates.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/statichq/webstand/internal/clock"
)

//go:embed templates/*.html.tpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets referenced by the page templates.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static assets missing: " + err.Error())
	}
	return sub
}

// Context carries the per-request template variables. A fresh value is built
// for every request; nothing outlives the response.
type Context struct {
	Title   string
	Message string
	Year    int
}

type cacheKey struct {
	page string
	year int
}

const DefaultCacheSize = 16

var pageNames = []string{"home", "contact", "about", "notfound"}

// Handler serves the home, contact and about pages plus the HTML not-found
// page. Rendered bodies only vary with the calendar year, so they are memoized
// per (page, year).
type Handler struct {
	clk   clock.Clock
	tpls  map[string]*template.Template
	cache *lru.Cache[cacheKey, []byte]
}

func New(clk clock.Clock, cacheSize int) (*Handler, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}

	tpls := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.ParseFS(templatesFS, "templates/layout.html.tpl", "templates/"+name+".html.tpl")
		if err != nil {
			return nil, fmt.Errorf("parse %q template: %w", name, err)
		}
		tpls[name] = tpl
	}

	return &Handler{
		clk:   clk,
		tpls:  tpls,
		cache: cache,
	}, nil
}

// Home serves `/` and `/home`.
func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home", Context{
		Title: "Home Page",
	})
}

func (h *Handler) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", Context{
		Title:   "Contact",
		Message: "Your contact page.",
	})
}

func (h *Handler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about", Context{
		Title:   "About",
		Message: "Your application description page.",
	})
}

// NotFound is the catch-all for unregistered paths.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound", Context{
		Title:   "Page Not Found",
		Message: "The page you requested does not exist.",
	})
}

func (h *Handler) render(c *gin.Context, status int, page string, data Context) {
	data.Year = h.clk.Now().Year()

	key := cacheKey{page: page, year: data.Year}
	if body, ok := h.cache.Get(key); ok {
		c.Data(status, "text/html; charset=utf-8", body)
		return
	}

	var buf bytes.Buffer
	if err := h.tpls[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		// Templates are parsed at startup, so this is a defect, not an input error.
		slog.Error("page render failed", "page", page, "error", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	body := buf.Bytes()
	h.cache.Add(key, body)
	c.Data(status, "text/html; charset=utf-8", body)
}

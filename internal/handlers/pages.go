package handlers

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/filehost/filehost/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

const notFoundPage = "file-not-found.html"

//go:embed static/file-not-found.html
var defaultNotFoundPage []byte

// PagesHandler serves the HTML front end from a directory on disk.
type PagesHandler struct {
	PublicDir string
}

func NewPagesHandler(publicDir string) *PagesHandler {
	return &PagesHandler{PublicDir: publicDir}
}

// Page returns a handler that sends one file from PublicDir.
func (h *PagesHandler) Page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := filepath.Join(h.PublicDir, name)
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Error("page_stat_failed", err, map[string]interface{}{"page": name})
			}
			return h.NotFound(c)
		}
		return c.SendFile(path)
	}
}

// NotFound answers 404 with the not-found page from PublicDir, or the
// built-in copy when PublicDir has none.
func (h *PagesHandler) NotFound(c *fiber.Ctx) error {
	page := defaultNotFoundPage
	if h.PublicDir != "" {
		if custom, err := os.ReadFile(filepath.Join(h.PublicDir, notFoundPage)); err == nil {
			page = custom
		}
	}
	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusNotFound).Send(page)
}

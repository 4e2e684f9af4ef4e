package handlers

import (
	"mime"
	"path/filepath"

	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// internalError logs err and answers with a generic 500 so store and blob
// failures never leak to clients.
func internalError(c *fiber.Ctx, action string, err error) error {
	details := map[string]interface{}{
		"path":       c.Path(),
		"request_id": getRequestID(c),
	}
	if username := logger.GetUsernameFromContext(c); username != nil {
		logger.ErrorWithUser(*username, action, err, details)
	} else {
		logger.Error(action, err, details)
	}
	return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
}

func getRequestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestID").(string); ok {
		return v
	}
	return ""
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filehost/filehost/internal/services"
	"github.com/filehost/filehost/internal/storage"
	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Users *services.UserStoreService
	Blobs storage.BlobStore
	Pages *PagesHandler

	// Now stamps storage filenames.
	Now func() time.Time
}

func NewFilesHandler(users *services.UserStoreService, blobs storage.BlobStore, pages *PagesHandler) *FilesHandler {
	return &FilesHandler{Users: users, Blobs: blobs, Pages: pages, Now: time.Now}
}

type shareRequest struct {
	Shared bool `json:"shared" form:"shared"`
}

// Upload stores the bytes first and the record second. When the record is
// rejected the stored bytes are removed again.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	username := c.FormValue("username")
	c.Locals("username", username)

	displayName := strings.TrimSpace(c.FormValue("filename"))
	if displayName == "" {
		displayName = fileHeader.Filename
	}
	storageName := utils.StorageFilename(displayName, fileHeader.Filename, h.Now())

	stream, err := fileHeader.Open()
	if err != nil {
		return internalError(c, "file_upload_open_failed", err)
	}
	defer stream.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFor(storageName)
	}

	if err := h.Blobs.Put(c.Context(), storageName, stream, fileHeader.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return utils.Error(c, fiber.StatusBadRequest, "invalid filename")
		}
		return internalError(c, "file_upload_failed", err)
	}

	if err := h.Users.AddFile(c.Context(), username, displayName, storageName); err != nil {
		if delErr := h.Blobs.Delete(c.Context(), storageName); delErr != nil {
			logger.ErrorWithUser(username, "file_upload_cleanup_failed", delErr, map[string]interface{}{
				"filename": storageName,
			})
		}
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.Error(c, fiber.StatusBadRequest, "User not found")
		case errors.Is(err, services.ErrConflict):
			return utils.Error(c, fiber.StatusBadRequest, "Filename already exists")
		default:
			return internalError(c, "file_upload_failed", err)
		}
	}

	logger.InfoWithUser(username, "file_uploaded", map[string]interface{}{
		"filename":     storageName,
		"originalname": displayName,
		"size":         fileHeader.Size,
	})
	return utils.Message(c, fiber.StatusOK, "File uploaded successfully")
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	username := c.Params("username")
	c.Locals("username", username)

	files, err := h.Users.ListFiles(c.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.Error(c, fiber.StatusBadRequest, "User not found")
		}
		return internalError(c, "file_list_failed", err)
	}
	return utils.JSON(c, fiber.StatusOK, files)
}

// Shared serves a file's bytes only while its owner keeps it shared.
func (h *FilesHandler) Shared(c *fiber.Ctx) error {
	filename := c.Params("filename")

	owner, _, err := h.Users.FindSharedFile(c.Context(), filename)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return h.Pages.NotFound(c)
		}
		return internalError(c, "shared_lookup_failed", err)
	}

	logger.InfoWithUser(owner, "shared_file_accessed", map[string]interface{}{
		"filename": filename,
		"ip":       c.IP(),
	})
	return h.sendBlob(c, filename)
}

// Download serves bytes by storage filename without a sharing check.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	return h.sendBlob(c, c.Params("filename"))
}

func (h *FilesHandler) sendBlob(c *fiber.Ctx, filename string) error {
	body, size, err := h.Blobs.Get(c.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return h.Pages.NotFound(c)
		}
		return internalError(c, "file_download_failed", err)
	}

	c.Set("Content-Type", contentTypeFor(filename))
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendStream(body, int(size))
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	username := c.Params("username")
	filename := c.Params("filename")
	c.Locals("username", username)

	if err := h.Users.DeleteFile(c.Context(), username, filename); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.Error(c, fiber.StatusBadRequest, "User not found")
		case errors.Is(err, services.ErrFileNotFound):
			return utils.Error(c, fiber.StatusBadRequest, "File not found")
		default:
			return internalError(c, "file_delete_failed", err)
		}
	}

	logger.InfoWithUser(username, "file_deleted", map[string]interface{}{
		"filename": filename,
	})
	return utils.Message(c, fiber.StatusOK, "File deleted successfully")
}

func (h *FilesHandler) Share(c *fiber.Ctx) error {
	username := c.Params("username")
	filename := c.Params("filename")
	c.Locals("username", username)

	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.Users.SetShared(c.Context(), username, filename, req.Shared); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.Error(c, fiber.StatusBadRequest, "User not found")
		case errors.Is(err, services.ErrFileNotFound):
			return utils.Error(c, fiber.StatusBadRequest, "File not found")
		default:
			return internalError(c, "file_share_failed", err)
		}
	}

	logger.InfoWithUser(username, "file_share_updated", map[string]interface{}{
		"filename": filename,
		"shared":   req.Shared,
	})
	return utils.Message(c, fiber.StatusOK, "File sharing status updated")
}

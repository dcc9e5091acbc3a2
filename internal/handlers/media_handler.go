package handlers

import (
	"context"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/condoflow/backend/pkg/utils"
)

// MediaStore is the attachment storage surface the media endpoints need.
type MediaStore interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
	Get(ctx context.Context, objectName string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectName string) error
	Exists(ctx context.Context, objectName string) (bool, error)
}

// MediaHandler manages notification attachments (payment slips, occurrence
// photos). Upload returns the object name that media dispatches reference.
type MediaHandler struct {
	store MediaStore
}

func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required")
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "attachments"
	}

	file, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unable to read file")
	}
	defer file.Close()

	objectName, err := h.store.Upload(c.Context(), file, header, folder)
	if err != nil {
		log.Printf("failed to store media %s: %v", header.Filename, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store file")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "File uploaded", fiber.Map{
		"object_name": objectName,
	})
}

func (h *MediaHandler) Download(c *fiber.Ctx) error {
	objectName := c.Params("*")
	if objectName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Object name is required")
	}

	exists, err := h.store.Exists(c.Context(), objectName)
	if err != nil {
		log.Printf("failed to stat media %s: %v", objectName, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read file")
	}
	if !exists {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "File not found")
	}

	object, err := h.store.Get(c.Context(), objectName)
	if err != nil {
		log.Printf("failed to read media %s: %v", objectName, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read file")
	}
	// fasthttp closes the stream after the response is written.
	return c.SendStream(object)
}

func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	objectName := c.Params("*")
	if objectName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Object name is required")
	}

	if err := h.store.Delete(c.Context(), objectName); err != nil {
		log.Printf("failed to delete media %s: %v", objectName, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete file")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "File deleted", nil)
}

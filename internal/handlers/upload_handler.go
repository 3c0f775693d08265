package handlers

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler stores listing and profile images and hands back the public
// URL they will be served from.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates a new UploadHandler writing into uploadDir.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// RegisterRoutes registers the upload routes with the Fiber app.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploads", h.HandleUploadImage)
}

// HandleUploadImage saves an uploaded image and returns its URL.
func (h *UploadHandler) HandleUploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image file is required",
		})
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Only .jpg, .jpeg, and .png files are allowed",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	filename := fmt.Sprintf("%s_%d%s", userID, time.Now().UnixNano(), ext)
	destination := filepath.Join(h.uploadDir, filename)

	if err := c.SaveFile(file, destination); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save file",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"url": fmt.Sprintf("/uploads/%s", filename),
	})
}

package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
)

const maxImageSize = 2 * 1024 * 1024

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// Uploads stores images under Dir and builds their public URLs. Files are
// served by app.Static("/uploads", Dir).
type Uploads struct {
	Dir           string
	PublicBaseURL string
}

// SaveImage validates the multipart image in field and writes it to
// Dir/sub. It returns the public URL.
func (u Uploads) SaveImage(c *fiber.Ctx, field, sub string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", apperrors.Validation(map[string]string{field: "File is required"})
	}
	if file.Size <= 0 || file.Size > maxImageSize {
		return "", apperrors.Validation(map[string]string{field: "File must be between 1 byte and 2MB"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", apperrors.Validation(map[string]string{field: "Only jpg, jpeg, png or webp images are allowed"})
	}

	dir := filepath.Join(u.Dir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Internal(fmt.Errorf("create upload dir: %w", err))
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return "", apperrors.Internal(fmt.Errorf("save upload: %w", err))
	}

	publicPath := "/uploads/" + filepath.ToSlash(filepath.Join(sub, filename))
	if base := strings.TrimRight(u.PublicBaseURL, "/"); base != "" {
		return base + publicPath, nil
	}
	return publicPath, nil
}

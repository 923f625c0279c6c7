// Package ai exposes the raw OCR passthrough endpoint.
package ai

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/shared/server/respond"
)

// Recognizer extracts text from an image file on disk.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Handler runs OCR over an already-uploaded file without persisting anything.
type Handler struct {
	OCR Recognizer
	// BaseDir confines requested paths to the upload directory.
	BaseDir string
}

// NewHandler constructs a Handler.
func NewHandler(ocr Recognizer, baseDir string) *Handler {
	return &Handler{OCR: ocr, BaseDir: baseDir}
}

// RegisterRoutes attaches OCR routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/extract-text", h.extractText)
}

type extractRequest struct {
	FilePath string `json:"filePath"`
}

func (h *Handler) extractText(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.FilePath) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File path is required", nil)
		return
	}

	fullPath, ok := h.resolve(req.FilePath)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File path is outside the upload directory", nil)
		return
	}
	if _, err := os.Stat(fullPath); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "File not found", nil)
		return
	}

	text, err := h.OCR.Recognize(c.Request.Context(), fullPath)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error processing image", nil)
		return
	}

	respond.OK(c, gin.H{"text": text})
}

// resolve maps the client-supplied path onto the upload directory, rejecting
// traversal and absolute paths.
func (h *Handler) resolve(raw string) (string, bool) {
	clean := filepath.Clean(strings.TrimSpace(raw))
	if filepath.IsAbs(clean) {
		return "", false
	}
	// accept both "uploads/<name>" and bare "<name>"
	clean = strings.TrimPrefix(clean, filepath.Base(h.BaseDir)+string(filepath.Separator))
	if strings.HasPrefix(clean, "..") {
		return "", false
	}
	return filepath.Join(h.BaseDir, clean), true
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubRecognizer struct {
	text  string
	err   error
	paths []string
}

func (s *stubRecognizer) Recognize(_ context.Context, path string) (string, error) {
	s.paths = append(s.paths, path)
	return s.text, s.err
}

func setupAIRouter(t *testing.T, rec *stubRecognizer) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	baseDir := t.TempDir()
	router := gin.New()
	NewHandler(rec, baseDir).RegisterRoutes(router.Group("/api"))
	return router, baseDir
}

func postExtract(t *testing.T, router *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/ai/extract-text", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestExtractTextReturnsOCROutput(t *testing.T) {
	rec := &stubRecognizer{text: "ALB: 4.2"}
	router, baseDir := setupAIRouter(t, rec)

	name := "1700000000000-scan.png"
	if err := os.WriteFile(filepath.Join(baseDir, name), []byte("png"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resp := postExtract(t, router, map[string]string{"filePath": name})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Text != "ALB: 4.2" {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if len(rec.paths) != 1 || rec.paths[0] != filepath.Join(baseDir, name) {
		t.Fatalf("unexpected recognized paths %v", rec.paths)
	}
}

func TestExtractTextRequiresFilePath(t *testing.T) {
	router, _ := setupAIRouter(t, &stubRecognizer{})

	resp := postExtract(t, router, map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestExtractTextRejectsTraversal(t *testing.T) {
	router, _ := setupAIRouter(t, &stubRecognizer{})

	for _, p := range []string{"../etc/passwd", "/etc/passwd"} {
		resp := postExtract(t, router, map[string]string{"filePath": p})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("path %q: expected status 400, got %d", p, resp.Code)
		}
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	router, _ := setupAIRouter(t, &stubRecognizer{})

	resp := postExtract(t, router, map[string]string{"filePath": "nope.png"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestExtractTextOCRFailure(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("boom")}
	router, baseDir := setupAIRouter(t, rec)

	if err := os.WriteFile(filepath.Join(baseDir, "x.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resp := postExtract(t, router, map[string]string{"filePath": "x.png"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
}

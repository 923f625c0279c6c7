// Package ocr shells out to tesseract and pdftoppm to turn uploaded
// documents into plain text.
package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Config controls the external binaries and rasterization parameters.
// Zero values fall back to sensible defaults.
type Config struct {
	Tesseract string // binary name or absolute path; default "tesseract"
	Pdftoppm  string // binary name or absolute path; default "pdftoppm"
	Language  string // tesseract language, default "eng"
	DPI       int    // rasterization DPI, default 300
	MaxPages  int    // 0 = no limit
}

func (c Config) normalized() Config {
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Language == "" {
		c.Language = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}

// Adapter recognizes text in image files.
type Adapter struct {
	cfg    Config
	runner Runner
}

// NewAdapter creates an Adapter that invokes the tesseract binary.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg.normalized(), runner: execRunner{}}
}

// Recognize runs tesseract on the image at path and returns the decoded text.
// An image with no readable text returns an empty string and no error.
func (a *Adapter) Recognize(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, path, "stdout", "-l", a.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w: %s", filepath.Base(path), err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}

// Converter rasterizes PDF documents into page images for OCR.
type Converter struct {
	cfg    Config
	runner Runner
}

// NewConverter creates a Converter that invokes the pdftoppm binary.
func NewConverter(cfg Config) *Converter {
	return &Converter{cfg: cfg.normalized(), runner: execRunner{}}
}

// Rasterize renders the PDF at pdfPath into PNG page images under workDir
// and returns their paths in page order. The caller owns workDir cleanup.
func (c *Converter) Rasterize(ctx context.Context, pdfPath, workDir string) ([]string, error) {
	prefix := filepath.Join(workDir, "page")
	args := []string{"-r", strconv.Itoa(c.cfg.DPI), "-png"}
	if c.cfg.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(c.cfg.MaxPages))
	}
	args = append(args, pdfPath, prefix)

	// pdftoppm -r 300 -png <in.pdf> <workDir/page>
	_, errb, err := c.runner.Run(ctx, c.cfg.Pdftoppm, args...)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm %s: %w: %s", filepath.Base(pdfPath), err, truncate(string(errb), 512))
	}

	// collect generated pngs (page-1.png, page-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if c.cfg.MaxPages > 0 && len(matches) > c.cfg.MaxPages {
		matches = matches[:c.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm %s: no pages rendered", filepath.Base(pdfPath))
	}
	return matches, nil
}

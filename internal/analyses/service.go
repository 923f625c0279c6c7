package analyses

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"labreport-backend/internal/extract"
	"labreport-backend/internal/ocr"
	"labreport-backend/internal/questionnaire"
	"labreport-backend/internal/shared/metrics"
	"labreport-backend/internal/shared/storage/object"
	"labreport-backend/internal/shared/telemetry"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Recognizer extracts text from an image file on disk.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Rasterizer renders a PDF into page images under workDir.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, workDir string) ([]string, error)
}

// FeedbackGenerator produces commentary for extracted values. It is total.
type FeedbackGenerator interface {
	Generate(ctx context.Context, values extract.Values, text string) string
}

// Service runs the document intake pipeline and owns analysis lifecycle.
type Service struct {
	Repo          Repo
	Store         object.ObjectStore
	OCR           Recognizer
	Converter     Rasterizer
	Feedback      FeedbackGenerator
	Questionnaire *questionnaire.Service

	// pageCount is swappable in tests; production uses the PDF parser.
	pageCount func(path string) (int, error)
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, rec Recognizer, conv Rasterizer, fb FeedbackGenerator, qs *questionnaire.Service) *Service {
	return &Service{
		Repo:          repo,
		Store:         store,
		OCR:           rec,
		Converter:     conv,
		Feedback:      fb,
		Questionnaire: qs,
		pageCount:     ocr.PageCount,
	}
}

// UploadInput captures one upload request.
type UploadInput struct {
	UserID   string
	FileName string
	Reader   io.Reader
	// Flags, when present, also saves the user's questionnaire answers.
	Flags *questionnaire.Flags
}

// UploadResult is the successful pipeline outcome.
type UploadResult struct {
	AnalysisID    string         `json:"analysisId"`
	ExtractedText string         `json:"extractedText"`
	Values        extract.Values `json:"values"`
	AIFeedback    string         `json:"aiFeedback"`
}

// ProcessUpload runs the intake pipeline: store the file, OCR it (rasterizing
// PDFs first), extract biomarker values, generate feedback and persist the
// analysis. Stages run strictly in order; nothing is persisted past a failing
// stage.
func (s *Service) ProcessUpload(ctx context.Context, in UploadInput) (UploadResult, error) {
	startedAt := time.Now()
	metrics.IncIntakeStarted()

	result, err := s.runPipeline(ctx, in)
	if err != nil {
		metrics.IncIntakeFailed()
	} else {
		metrics.IncIntakeCompleted()
	}
	metrics.ObserveIntakeDurationMs(metrics.SinceMs(startedAt))
	return result, err
}

func (s *Service) runPipeline(ctx context.Context, in UploadInput) (UploadResult, error) {
	storageKey, size, mimeType, err := s.Store.Save(ctx, in.FileName, in.Reader)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}
	telemetry.Info("upload.stored", map[string]any{
		"userId":     in.UserID,
		"storageKey": storageKey,
		"sizeBytes":  size,
		"mimeType":   mimeType,
	})

	localPath, cleanup, err := s.materialize(ctx, storageKey, in.FileName)
	if err != nil {
		return UploadResult{}, fmt.Errorf("materialize upload: %w", err)
	}
	defer cleanup()

	ocrTarget := localPath
	if mimeType == "application/pdf" {
		ocrTarget, err = s.rasterizeFirstPage(ctx, localPath)
		if err != nil {
			return UploadResult{}, fmt.Errorf("%w: %v", ErrPDFConvert, err)
		}
	}

	text, err := s.OCR.Recognize(ctx, ocrTarget)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrOCR, err)
	}

	values := extract.Parse(text)
	aiFeedback := s.Feedback.Generate(ctx, values, text)

	analysis := Analysis{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		FileName:      in.FileName,
		StorageKey:    storageKey,
		ExtractedText: text,
		Values:        values,
		AIFeedback:    &aiFeedback,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return UploadResult{}, fmt.Errorf("persist analysis: %w", err)
	}

	if in.Flags != nil && s.Questionnaire != nil {
		if _, err := s.Questionnaire.Submit(ctx, in.UserID, *in.Flags); err != nil {
			return UploadResult{}, fmt.Errorf("persist questionnaire: %w", err)
		}
	}

	return UploadResult{
		AnalysisID:    analysis.ID,
		ExtractedText: text,
		Values:        values,
		AIFeedback:    aiFeedback,
	}, nil
}

// materialize copies the stored object into a scratch file so the OCR
// binaries can read it from disk regardless of the backing store.
func (s *Service) materialize(ctx context.Context, storageKey, fileName string) (string, func(), error) {
	src, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	dir, err := os.MkdirTemp("", "intake-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			telemetry.Error("upload.cleanup_failed", map[string]any{"dir": dir, "error": err.Error()})
		}
	}

	dst := filepath.Join(dir, "document"+filepath.Ext(fileName))
	f, err := os.Create(dst)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst, cleanup, nil
}

// rasterizeFirstPage validates the PDF and renders it, returning the first
// page image. The page files live next to the materialized document and are
// removed with it.
func (s *Service) rasterizeFirstPage(ctx context.Context, pdfPath string) (string, error) {
	pages, err := s.pageCount(pdfPath)
	if err != nil {
		return "", err
	}
	telemetry.Info("upload.pdf_detected", map[string]any{"pages": pages})

	images, err := s.Converter.Rasterize(ctx, pdfPath, filepath.Dir(pdfPath))
	if err != nil {
		return "", err
	}
	return images[0], nil
}

// List returns one page of the user's history, newest first. Page and limit
// fall back to 1 and 10; limit is capped at 100.
func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]Analysis, Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	analyses, err := s.Repo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}

	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return analyses, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, analysisID)
}

// Delete removes the backing file, then the record. The two steps are not
// transactional: a crash in between leaves an orphan row without a file.
func (s *Service) Delete(ctx context.Context, analysisID string) error {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, analysis.StorageKey); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return s.Repo.Delete(ctx, analysisID)
}

// RegenerateFeedback re-runs feedback generation over the stored values and
// overwrites only the feedback text.
func (s *Service) RegenerateFeedback(ctx context.Context, analysisID string) (string, error) {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return "", err
	}

	aiFeedback := s.Feedback.Generate(ctx, analysis.Values, analysis.ExtractedText)
	if err := s.Repo.UpdateFeedback(ctx, analysisID, aiFeedback); err != nil {
		return "", err
	}
	return aiFeedback, nil
}

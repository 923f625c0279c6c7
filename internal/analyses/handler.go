package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/extract"
	"labreport-backend/internal/questionnaire"
	"labreport-backend/internal/shared/server/respond"
)

// maxUploadBytes bounds a single document upload.
const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches file processing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files/upload", h.upload)
	rg.GET("/files/history/:userId", h.history)
	rg.GET("/files/analysis/:analysisId", h.getAnalysis)
	rg.DELETE("/files/analysis/:analysisId", h.deleteAnalysis)
	rg.POST("/files/regenerate-feedback/:analysisId", h.regenerateFeedback)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	userID := c.PostForm("userId")
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error processing file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.ProcessUpload(c.Request.Context(), UploadInput{
		UserID:   userID,
		FileName: fileHeader.Filename,
		Reader:   file,
		Flags:    questionnaireFlagsFromForm(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPDFConvert):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error processing PDF", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error processing file", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message":       "File processed successfully",
		"analysisId":    result.AnalysisID,
		"extractedText": result.ExtractedText,
		"values":        result.Values,
		"aiFeedback":    result.AIFeedback,
	})
}

// questionnaireFlagsFromForm picks up optional symptom flags sent alongside
// the file. Returns nil when the form carries none of them.
func questionnaireFlagsFromForm(c *gin.Context) *questionnaire.Flags {
	var flags questionnaire.Flags
	present := false
	for name, dst := range map[string]*bool{
		"bmi":        &flags.BMI,
		"fever":      &flags.Fever,
		"nausea":     &flags.Nausea,
		"headache":   &flags.Headache,
		"diarrhea":   &flags.Diarrhea,
		"fatigue":    &flags.Fatigue,
		"jaundice":   &flags.Jaundice,
		"epigastric": &flags.Epigastric,
	} {
		raw, ok := c.GetPostForm(name)
		if !ok {
			continue
		}
		present = true
		if parsed, err := strconv.ParseBool(raw); err == nil {
			*dst = parsed
		}
	}
	if !present {
		return nil
	}
	return &flags
}

type historySummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	CreatedAt  time.Time `json:"createdAt"`
	AIFeedback *string   `json:"aiFeedback"`

	extract.Values
}

func (h *Handler) history(c *gin.Context) {
	userID := c.Param("userId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	analyses, pagination, err := h.Svc.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching analysis history", nil)
		return
	}

	summaries := make([]historySummary, 0, len(analyses))
	for _, a := range analyses {
		summaries = append(summaries, historySummary{
			ID:         a.ID,
			FileName:   a.FileName,
			CreatedAt:  a.CreatedAt,
			AIFeedback: a.AIFeedback,
			Values:     a.Values,
		})
	}

	respond.OK(c, gin.H{
		"analyses":   summaries,
		"pagination": pagination,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), c.Param("analysisId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching analysis", nil)
		}
		return
	}

	respond.OK(c, gin.H{"analysis": analysis})
}

func (h *Handler) deleteAnalysis(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("analysisId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error deleting analysis", nil)
		}
		return
	}

	respond.OK(c, gin.H{"message": "Analysis deleted successfully"})
}

func (h *Handler) regenerateFeedback(c *gin.Context) {
	aiFeedback, err := h.Svc.RegenerateFeedback(c.Request.Context(), c.Param("analysisId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error regenerating AI feedback", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message":    "AI feedback regenerated successfully",
		"aiFeedback": aiFeedback,
	})
}

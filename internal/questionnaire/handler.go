package questionnaire

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the questionnaire service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches questionnaire routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questionnaire/submit", h.submit)
}

type submitRequest struct {
	UserID string `json:"userId"`
	Flags
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.UserID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}

	q, err := h.Svc.Submit(c.Request.Context(), req.UserID, req.Flags)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error saving questionnaire", nil)
		return
	}

	respond.OK(c, gin.H{
		"message":       "Questionnaire saved successfully",
		"questionnaire": q,
	})
}

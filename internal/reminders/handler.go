package reminders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reminders service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches reminder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reminders/create", h.create)
	rg.GET("/reminders/:userId", h.listByUser)
}

type createRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.UserID == "" || req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId and message are required", nil)
		return
	}

	reminder, err := h.Svc.Create(c.Request.Context(), req.UserID, req.Message, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid date format. Use ISO 8601 format.", nil)
		case errors.Is(err, ErrUserNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "User not found.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error creating reminder", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, reminder)
}

func (h *Handler) listByUser(c *gin.Context) {
	reminders, err := h.Svc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching reminders", nil)
		return
	}
	respond.OK(c, reminders)
}

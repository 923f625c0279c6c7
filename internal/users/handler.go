package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/login", h.login)
	rg.GET("/auth/user/:id", h.getUser)
}

type signUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	user, err := h.Svc.SignUp(c.Request.Context(), SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "validation_error", "User already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create user", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, user.Public())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid credentials", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func (h *Handler) getUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user id is required", nil)
		return
	}

	user, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch user", nil)
		}
		return
	}

	respond.OK(c, user.Public())
}

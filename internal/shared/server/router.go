package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/ai"
	"labreport-backend/internal/analyses"
	"labreport-backend/internal/questionnaire"
	"labreport-backend/internal/reminders"
	"labreport-backend/internal/shared/metrics"
	"labreport-backend/internal/shared/server/middleware"
	"labreport-backend/internal/shared/server/respond"
	"labreport-backend/internal/users"
)

// RouterDeps carries the feature handlers wired by bootstrap.
type RouterDeps struct {
	CORSAllowOrigin []string

	Users         *users.Handler
	Analyses      *analyses.Handler
	Questionnaire *questionnaire.Handler
	Reminders     *reminders.Handler
	AI            *ai.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the server!")
	})
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	deps.Users.RegisterRoutes(api)
	deps.Analyses.RegisterRoutes(api)
	deps.Questionnaire.RegisterRoutes(api)
	deps.Reminders.RegisterRoutes(api)
	deps.AI.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

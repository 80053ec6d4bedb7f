package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studymatrix-backend/internal/export"
	"studymatrix-backend/internal/shared/config"
	"studymatrix-backend/internal/shared/metrics"
	"studymatrix-backend/internal/shared/server/middleware"
	"studymatrix-backend/internal/shared/server/respond"
	"studymatrix-backend/internal/snapshot"
	"studymatrix-backend/internal/studies"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	StudiesHandler *studies.Handler
	ExportHandler  *export.Handler
	ShareHandler   *snapshot.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.StudiesHandler.RegisterRoutes(api)
	deps.ExportHandler.RegisterRoutes(api)
	deps.ShareHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

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

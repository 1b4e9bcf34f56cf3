package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/courseclip/syllabus-backend/internal/config"
	"github.com/courseclip/syllabus-backend/internal/handler"
	"github.com/courseclip/syllabus-backend/internal/middleware"
	"github.com/courseclip/syllabus-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Syllabus *handler.SyllabusHandler
	Course   *handler.CourseHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for ingestion: each upload costs one extraction call, so
	// keep the per-IP budget small.
	ingestLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := router.Group("/api/v1")
	{
		api.POST("/syllabi", ingestLimiter.Middleware(), handlers.Syllabus.Ingest)

		api.GET("/courses", handlers.Course.ListCourses)
		api.GET("/courses/:id", handlers.Course.GetCourse)
		api.DELETE("/courses/:id", handlers.Course.DeleteCourse)
	}

	return router
}

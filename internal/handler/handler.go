package handler

import (
	"net/http"
	"time"

	"fitcoach-api/internal/service"
	"fitcoach-api/pkg/schema"
	"fitcoach-api/pkg/util"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	services *service.Services
	mapping  *schema.Mapping
	cors     string
	limiter  *rateLimiter
}

func NewHandlers(services *service.Services, mapping *schema.Mapping, corsOrigin string) *Handlers {
	return &Handlers{
		services: services,
		mapping:  mapping,
		cors:     corsOrigin,
		limiter:  newRateLimiter(60, time.Minute),
	}
}

func (h *Handlers) InitRoutes() *gin.Engine {
	router := gin.Default()
	pprof.Register(router)
	router.Use(util.CORS(h.cors))
	router.Use(requestID())
	router.Use(observeRequests())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/debug/schema", h.debugSchema)

		api.POST("/auth/telegram", h.rateLimit(), h.telegramLogin)
		api.POST("/auth/role", h.rateLimit(), h.authRequired(), h.setRole)

		api.GET("/profile", h.authRequired(), h.getProfile)
		api.POST("/profile", h.rateLimit(), h.authRequired(), h.saveProfile)

		api.POST("/consent", h.rateLimit(), h.authRequired(), h.postConsent)
	}

	return router
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "ts": time.Now().UTC()})
}

// debugSchema shows how the adaptive resolver mapped the database.
func (h *Handlers) debugSchema(c *gin.Context) {
	c.JSON(http.StatusOK, h.mapping)
}

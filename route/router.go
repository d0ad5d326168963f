package route

import (
	"net/http"

	"coursehub/controller"
	"coursehub/logger"
	"coursehub/middlewares"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Log     *logger.Logger
	Courses *controller.CourseController
	Health  *controller.HealthController

	// TrustedProxies may set the client IP through X-Forwarded-For. Nil
	// trusts no proxy.
	TrustedProxies []string

	// Optional.
	Thumbnails  *controller.ThumbnailController
	RateLimiter *middlewares.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cfg.Log.Warn("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(middlewares.CORS())
	router.Use(middlewares.RequestLogger(cfg.Log))
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	Health(router, cfg.Health)
	Courses(router, cfg.Courses)
	Instructors(router, cfg.Courses)
	if cfg.Thumbnails != nil {
		Thumbnails(router, cfg.Thumbnails)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.Envelope("route_not_found", "route not found"))
	})
	return router
}

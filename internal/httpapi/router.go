// Package httpapi assembles the HTTP surface: the /api auth routes, the
// liveness root, and an optional metrics endpoint.
package httpapi

import (
	"net/http"

	"github.com/MrEthical07/credgate"
	"github.com/MrEthical07/credgate/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine serving the auth API. metricsHandler is
// optional; when non-nil it is mounted at GET /metrics.
func NewRouter(engine *credgate.Engine, metricsHandler http.Handler) *gin.Engine {
	h := &handlers{engine: engine}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Auth API Working")
	})

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/refresh-token", h.refresh)
		api.POST("/logout", middleware.Guard(engine), h.logout)

		api.GET("/protected", middleware.Guard(engine), h.protected)
		api.GET("/admin",
			middleware.Guard(engine),
			middleware.RequireRole(engine, credgate.RoleAdmin),
			h.admin)
	}

	return router
}

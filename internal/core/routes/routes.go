package routes

import (
	"github.com/GThiruAishwarya/kristaball/internal/core/container"
	"github.com/GThiruAishwarya/kristaball/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches every handler to the router. The handlers guard
// themselves with the JWT middleware and role checks.
func RegisterRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
	c.AssetHandler.RegisterRoutes(router)
	c.LedgerHandler.RegisterRoutes(router)
	c.MovementHandler.RegisterRoutes(router)
	c.DashboardHandler.RegisterRoutes(router)
	c.BaseHandler.RegisterRoutes(router)
	c.CategoryHandler.RegisterRoutes(router)
	c.UserHandler.RegisterRoutes(router)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}

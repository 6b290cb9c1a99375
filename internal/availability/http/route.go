package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	provider := g.Group("/providers/:provider_id/availability")

	// === Public Routes ===
	provider.GET("/dates", h.GetDates)
	provider.GET("/slots", h.GetSlots)

	// === Authenticated Routes ===
	authed := provider.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("/rules", h.ListRules)
		authed.POST("/rules", h.CreateRule)
		authed.PUT("/rules", h.ReplaceRules)

		authed.GET("/overrides", h.ListOverrides)
		authed.POST("/overrides", h.CreateOverride)

		authed.GET("/settings", h.GetSettings)
		authed.PATCH("/settings", h.UpdateSettings)
	}

	// Rule and override mutations addressed by their own id.
	items := g.Group("/availability")
	items.Use(authMiddleware)
	{
		items.PATCH("/rules/:id", h.UpdateRule)
		items.DELETE("/rules/:id", h.DeleteRule)
		items.DELETE("/overrides/:id", h.DeleteOverride)
	}
}

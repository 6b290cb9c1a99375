package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	provider := g.Group("/providers/:provider_id/announcements")

	// === Public Routes ===
	provider.GET("", h.List)

	// === Authenticated Routes ===
	authed := provider.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
	}

	items := g.Group("/announcements")
	items.GET("/:id", h.Get)

	mutations := items.Group("")
	mutations.Use(authMiddleware)
	{
		mutations.PATCH("/:id", h.Update)
		mutations.DELETE("/:id", h.Delete)
	}
}

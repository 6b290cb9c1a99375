package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/providers")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:provider_id", h.Get)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
		authed.PATCH("/:provider_id", h.Update)
		authed.DELETE("/:provider_id", h.Delete)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListMine)
		group.GET("/:id", h.Get)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/confirm", h.Confirm)
	}

	provider := g.Group("/providers/:provider_id/bookings")
	provider.Use(authMiddleware)
	{
		provider.GET("", h.ListForProvider)
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidemill/bookable-backend/internal/auth"
	"github.com/tidemill/bookable-backend/internal/pkg/request"
	"github.com/tidemill/bookable-backend/internal/pkg/response"
	"github.com/tidemill/bookable-backend/internal/provider"
	"github.com/tidemill/bookable-backend/internal/user"
)

type Handler struct {
	service     provider.Service
	userService user.Service
}

func NewHandler(service provider.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

func (h *Handler) isSysAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsSystemAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateProviderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), provider.CreateRequest{
		OwnerUserID: auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewProviderResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), uri.ProviderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProviderResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var query ListProvidersRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	active := true
	filter := provider.Filter{
		OwnerUserID: query.Owner,
		Keyword:     query.Keyword,
		IsActive:    &active,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}

	providers, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ProviderResponse, len(providers))
	for i, p := range providers {
		items[i] = NewProviderResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body UpdateProviderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	p, err := h.service.Update(c.Request.Context(), uri.ProviderID, provider.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		IsActive:    body.IsActive,
	}, userID, h.isSysAdmin(c, userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProviderResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	userID := auth.GetUserID(c)
	if err := h.service.Delete(c.Request.Context(), uri.ProviderID, userID, h.isSysAdmin(c, userID)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

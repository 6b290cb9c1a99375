package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidemill/bookable-backend/internal/auth"
	"github.com/tidemill/bookable-backend/internal/availability"
	"github.com/tidemill/bookable-backend/internal/pkg/request"
	"github.com/tidemill/bookable-backend/internal/pkg/response"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// --- Rules ---

func (h *Handler) CreateRule(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body RuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	in, err := body.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), uri.ProviderID, in, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRuleResponse(rule))
}

func (h *Handler) ListRules(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	rules, err := h.service.ListRules(c.Request.Context(), uri.ProviderID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewRuleResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"rules": items})
}

func (h *Handler) ReplaceRules(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body ReplaceRulesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ins := make([]availability.RuleInput, len(body.Rules))
	for i, r := range body.Rules {
		in, err := r.toInput()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ins[i] = in
	}

	rules, err := h.service.ReplaceRules(c.Request.Context(), uri.ProviderID, ins, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewRuleResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"rules": items})
}

func (h *Handler) UpdateRule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var body RuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	in, err := body.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.UpdateRule(c.Request.Context(), uri.ID, in, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRuleResponse(rule))
}

func (h *Handler) DeleteRule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Overrides ---

func (h *Handler) CreateOverride(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body CreateOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	in, err := body.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.CreateOverride(c.Request.Context(), uri.ProviderID, in, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewOverrideResponse(o))
}

func (h *Handler) ListOverrides(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var query DateRangeRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	from, to, err := parseDateRange(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrides, err := h.service.ListOverrides(c.Request.Context(), uri.ProviderID, from, to, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		items[i] = NewOverrideResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"overrides": items})
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid override id"})
		return
	}

	if err := h.service.DeleteOverride(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Settings ---

func (h *Handler) GetSettings(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), uri.ProviderID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(settings))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body UpdateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), uri.ProviderID, availability.SettingsPatch{
		Timezone:            body.Timezone,
		SlotDurationMinutes: body.SlotDurationMinutes,
		BufferBeforeMinutes: body.BufferBeforeMinutes,
		BufferAfterMinutes:  body.BufferAfterMinutes,
		MinAdvanceHours:     body.MinAdvanceHours,
		MaxAdvanceDays:      body.MaxAdvanceDays,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(settings))
}

// --- Public ---

func (h *Handler) GetDates(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var query DateRangeRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	from, to, err := parseDateRange(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates, tz, err := h.service.GetAvailableDates(c.Request.Context(), uri.ProviderID, from, to, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DateSummaryResponse, len(dates))
	for i, d := range dates {
		items[i] = DateSummaryResponse{Date: d.Date.String(), HasAvailability: d.HasAvailability}
	}
	c.JSON(http.StatusOK, DatesResponse{Timezone: tz, Dates: items})
}

func (h *Handler) GetSlots(c *gin.Context) {
	var uri request.ByProviderIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var query SlotsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	date, err := timeutil.ParseDate(query.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, tz, err := h.service.GetAvailableSlots(c.Request.Context(), uri.ProviderID, query.ServiceID, date, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{
			Date:      s.Date.String(),
			StartTime: s.Start.String(),
			EndTime:   s.End.String(),
			Available: s.Available,
		}
	}
	c.JSON(http.StatusOK, SlotsResponse{Timezone: tz, Slots: items})
}

func parseDateRange(query DateRangeRequest) (timeutil.Date, timeutil.Date, error) {
	from, err := timeutil.ParseDate(query.From)
	if err != nil {
		return timeutil.Date{}, timeutil.Date{}, err
	}
	to, err := timeutil.ParseDate(query.To)
	if err != nil {
		return timeutil.Date{}, timeutil.Date{}, err
	}
	return from, to, nil
}

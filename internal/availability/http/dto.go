package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/availability"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

type RuleRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

func (r RuleRequest) toInput() (availability.RuleInput, error) {
	start, err := timeutil.ParseClock(r.StartTime)
	if err != nil {
		return availability.RuleInput{}, err
	}
	end, err := timeutil.ParseClock(r.EndTime)
	if err != nil {
		return availability.RuleInput{}, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return availability.RuleInput{
		Weekday:  time.Weekday(r.DayOfWeek),
		Start:    start,
		End:      end,
		IsActive: active,
	}, nil
}

type ReplaceRulesRequest struct {
	Rules []RuleRequest `json:"rules" binding:"required"`
}

type CreateOverrideRequest struct {
	Date      string  `json:"date" binding:"required"`
	Blocked   bool    `json:"blocked"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Note      string  `json:"note" binding:"omitempty,max=500"`
}

func (r CreateOverrideRequest) toInput() (availability.OverrideInput, error) {
	date, err := timeutil.ParseDate(r.Date)
	if err != nil {
		return availability.OverrideInput{}, err
	}
	in := availability.OverrideInput{Date: date, Blocked: r.Blocked, Note: r.Note}
	if r.StartTime != nil {
		start, err := timeutil.ParseClock(*r.StartTime)
		if err != nil {
			return availability.OverrideInput{}, err
		}
		in.Start = &start
	}
	if r.EndTime != nil {
		end, err := timeutil.ParseClock(*r.EndTime)
		if err != nil {
			return availability.OverrideInput{}, err
		}
		in.End = &end
	}
	return in, nil
}

type DateRangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type SlotsRequest struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required"`
}

type UpdateSettingsRequest struct {
	Timezone            *string `json:"timezone" binding:"omitempty,max=64"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes" binding:"omitempty,min=15,max=480"`
	BufferBeforeMinutes *int    `json:"buffer_before_minutes" binding:"omitempty,min=0,max=120"`
	BufferAfterMinutes  *int    `json:"buffer_after_minutes" binding:"omitempty,min=0,max=120"`
	MinAdvanceHours     *int    `json:"min_advance_hours" binding:"omitempty,min=0,max=168"`
	MaxAdvanceDays      *int    `json:"max_advance_days" binding:"omitempty,min=1,max=365"`
}

type RuleResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewRuleResponse(r *availability.Rule) RuleResponse {
	return RuleResponse{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		DayOfWeek:  int(r.Weekday),
		StartTime:  r.Start.String(),
		EndTime:    r.End.String(),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type OverrideResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Date       string    `json:"date"`
	Blocked    bool      `json:"blocked"`
	StartTime  *string   `json:"start_time,omitempty"`
	EndTime    *string   `json:"end_time,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewOverrideResponse(o *availability.Override) OverrideResponse {
	resp := OverrideResponse{
		ID:         o.ID,
		ProviderID: o.ProviderID,
		Date:       o.Date.String(),
		Blocked:    o.Blocked,
		Note:       o.Note,
		CreatedAt:  o.CreatedAt,
	}
	if o.Start != nil {
		s := o.Start.String()
		resp.StartTime = &s
	}
	if o.End != nil {
		e := o.End.String()
		resp.EndTime = &e
	}
	return resp
}

type SettingsResponse struct {
	ProviderID          string    `json:"provider_id"`
	Timezone            string    `json:"timezone"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	BufferBeforeMinutes int       `json:"buffer_before_minutes"`
	BufferAfterMinutes  int       `json:"buffer_after_minutes"`
	MinAdvanceHours     int       `json:"min_advance_hours"`
	MaxAdvanceDays      int       `json:"max_advance_days"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func NewSettingsResponse(s *availability.Settings) SettingsResponse {
	return SettingsResponse{
		ProviderID:          s.ProviderID,
		Timezone:            s.Timezone,
		SlotDurationMinutes: s.SlotDurationMinutes,
		BufferBeforeMinutes: s.BufferBeforeMinutes,
		BufferAfterMinutes:  s.BufferAfterMinutes,
		MinAdvanceHours:     s.MinAdvanceHours,
		MaxAdvanceDays:      s.MaxAdvanceDays,
		UpdatedAt:           s.UpdatedAt,
	}
}

type DateSummaryResponse struct {
	Date            string `json:"date"`
	HasAvailability bool   `json:"has_availability"`
}

// DatesResponse carries the provider timezone so clients can interpret the
// dates without a second settings lookup.
type DatesResponse struct {
	Timezone string                `json:"timezone"`
	Dates    []DateSummaryResponse `json:"dates"`
}

type SlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type SlotsResponse struct {
	Timezone string         `json:"timezone"`
	Slots    []SlotResponse `json:"slots"`
}

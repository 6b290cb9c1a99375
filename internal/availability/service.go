package availability

import (
	"context"
	"errors"
	"time"

	"github.com/tidemill/bookable-backend/internal/catalog"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
	"github.com/tidemill/bookable-backend/internal/schedule"
)

// BookingSource supplies the existing blocking bookings the conflict
// detector runs against. Implemented by the booking repository.
type BookingSource interface {
	ListOccupied(ctx context.Context, providerID string, from, to timeutil.Date) (map[timeutil.Date][]schedule.Occupied, error)
}

// OfferingSource supplies the bookable offering (duration, active flag).
// Satisfied by catalog.Service.
type OfferingSource interface {
	GetBookable(ctx context.Context, id string) (*catalog.Offering, error)
}

// ProviderGuard answers ownership questions for mutation endpoints.
// Satisfied by provider.Service.
type ProviderGuard interface {
	IsOwner(ctx context.Context, providerID, userID string) (bool, error)
}

type RuleInput struct {
	Weekday  time.Weekday
	Start    timeutil.Clock
	End      timeutil.Clock
	IsActive bool
}

type OverrideInput struct {
	Date    timeutil.Date
	Blocked bool
	Start   *timeutil.Clock
	End     *timeutil.Clock
	Note    string
}

type SettingsPatch struct {
	Timezone            *string
	SlotDurationMinutes *int
	BufferBeforeMinutes *int
	BufferAfterMinutes  *int
	MinAdvanceHours     *int
	MaxAdvanceDays      *int
}

// DateSummary flags whether a date has any open hours (before booking
// subtraction; a fully booked date still reads as having availability).
type DateSummary struct {
	Date            timeutil.Date
	HasAvailability bool
}

// Slot is one bookable window on a date, flagged against existing bookings.
type Slot struct {
	Date      timeutil.Date
	Start     timeutil.Clock
	End       timeutil.Clock
	Available bool
}

// BookingCandidate is a fully validated booking request, ready for the
// serialized commit. Settings are returned so the commit path re-runs the
// conflict check with the same buffers.
type BookingCandidate struct {
	ProviderID string
	OfferingID string
	Date       timeutil.Date
	Window     schedule.Range
	Settings   *Settings
}

type Service interface {
	CreateRule(ctx context.Context, providerID string, in RuleInput, userID string) (*Rule, error)
	ListRules(ctx context.Context, providerID string, userID string) ([]*Rule, error)
	UpdateRule(ctx context.Context, id string, in RuleInput, userID string) (*Rule, error)
	DeleteRule(ctx context.Context, id string, userID string) error
	ReplaceRules(ctx context.Context, providerID string, ins []RuleInput, userID string) ([]*Rule, error)

	CreateOverride(ctx context.Context, providerID string, in OverrideInput, userID string) (*Override, error)
	ListOverrides(ctx context.Context, providerID string, from, to timeutil.Date, userID string) ([]*Override, error)
	DeleteOverride(ctx context.Context, id string, userID string) error

	GetSettings(ctx context.Context, providerID string, userID string) (*Settings, error)
	UpdateSettings(ctx context.Context, providerID string, patch SettingsPatch, userID string) (*Settings, error)

	// Public read path. now is captured once per request by the handler.
	GetAvailableDates(ctx context.Context, providerID string, from, to timeutil.Date, now time.Time) ([]DateSummary, string, error)
	GetAvailableSlots(ctx context.Context, providerID, offeringID string, date timeutil.Date, now time.Time) ([]Slot, string, error)

	// ValidateBookingRequest is the authoritative gate run immediately
	// before a booking is persisted.
	ValidateBookingRequest(ctx context.Context, providerID, offeringID string, date timeutil.Date, start timeutil.Clock, now time.Time) (*BookingCandidate, error)
}

type service struct {
	repo      Repository
	offerings OfferingSource
	bookings  BookingSource
	guard     ProviderGuard
}

func NewService(repo Repository, offerings OfferingSource, bookings BookingSource, guard ProviderGuard) Service {
	return &service{
		repo:      repo,
		offerings: offerings,
		bookings:  bookings,
		guard:     guard,
	}
}

func (s *service) requireOwner(ctx context.Context, providerID, userID string) error {
	isOwner, err := s.guard.IsOwner(ctx, providerID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrPermissionDenied
	}
	return nil
}

// --- Rules ---

func (s *service) CreateRule(ctx context.Context, providerID string, in RuleInput, userID string) (*Rule, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}
	if err := validateRuleWindow(in); err != nil {
		return nil, err
	}

	if in.IsActive {
		existing, err := s.repo.ListActiveRules(ctx, providerID)
		if err != nil {
			return nil, err
		}
		candidate := schedule.WeeklyRule{Weekday: in.Weekday, Window: schedule.Range{Start: in.Start, End: in.End}}
		if err := schedule.ValidateRuleAgainst(toWeeklyRules(existing), candidate); err != nil {
			return nil, ErrRuleOverlap.WithMessage(err.Error())
		}
	}

	rule := &Rule{
		ProviderID: providerID,
		Weekday:    in.Weekday,
		Start:      in.Start,
		End:        in.End,
		IsActive:   in.IsActive,
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) ListRules(ctx context.Context, providerID string, userID string) ([]*Rule, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListRules(ctx, providerID)
}

func (s *service) UpdateRule(ctx context.Context, id string, in RuleInput, userID string) (*Rule, error) {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, rule.ProviderID, userID); err != nil {
		return nil, err
	}
	if err := validateRuleWindow(in); err != nil {
		return nil, err
	}

	if in.IsActive {
		existing, err := s.repo.ListActiveRules(ctx, rule.ProviderID)
		if err != nil {
			return nil, err
		}
		candidate := schedule.WeeklyRule{ID: rule.ID, Weekday: in.Weekday, Window: schedule.Range{Start: in.Start, End: in.End}}
		if err := schedule.ValidateRuleAgainst(toWeeklyRules(existing), candidate); err != nil {
			return nil, ErrRuleOverlap.WithMessage(err.Error())
		}
	}

	rule.Weekday = in.Weekday
	rule.Start = in.Start
	rule.End = in.End
	rule.IsActive = in.IsActive

	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) DeleteRule(ctx context.Context, id string, userID string) error {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, rule.ProviderID, userID); err != nil {
		return err
	}
	return s.repo.DeleteRule(ctx, id)
}

func (s *service) ReplaceRules(ctx context.Context, providerID string, ins []RuleInput, userID string) ([]*Rule, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(ins))
	batch := make([]schedule.WeeklyRule, 0, len(ins))
	for _, in := range ins {
		if err := validateRuleWindow(in); err != nil {
			return nil, err
		}
		if in.IsActive {
			batch = append(batch, schedule.WeeklyRule{
				Weekday: in.Weekday,
				Window:  schedule.Range{Start: in.Start, End: in.End},
			})
		}
		rules = append(rules, &Rule{
			ProviderID: providerID,
			Weekday:    in.Weekday,
			Start:      in.Start,
			End:        in.End,
			IsActive:   in.IsActive,
		})
	}

	// All-or-nothing: the whole incoming batch is validated pairwise before
	// any of it is accepted.
	if err := schedule.ValidateRuleSet(batch); err != nil {
		return nil, ErrRuleOverlap.WithMessage(err.Error())
	}

	if err := s.repo.ReplaceRules(ctx, providerID, rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// --- Overrides ---

func (s *service) CreateOverride(ctx context.Context, providerID string, in OverrideInput, userID string) (*Override, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}

	if in.Blocked && (in.Start != nil || in.End != nil) {
		// Blocked overrides blank the whole date; partial blocks are
		// expressed by replacing the day with an available window instead.
		return nil, ErrInvalidTimeRange.WithMessage("a blocked override cannot carry times")
	}
	if (in.Start == nil) != (in.End == nil) {
		return nil, ErrInvalidTimeRange.WithMessage("start and end times must be provided together")
	}
	if in.Start != nil {
		w := schedule.Range{Start: *in.Start, End: *in.End}
		if !w.Valid() {
			return nil, ErrInvalidTimeRange
		}
	}

	o := &Override{
		ProviderID: providerID,
		Date:       in.Date,
		Blocked:    in.Blocked,
		Start:      in.Start,
		End:        in.End,
		Note:       in.Note,
	}
	if err := s.repo.CreateOverride(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) ListOverrides(ctx context.Context, providerID string, from, to timeutil.Date, userID string) ([]*Override, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListOverridesInRange(ctx, providerID, from, to)
}

func (s *service) DeleteOverride(ctx context.Context, id string, userID string) error {
	o, err := s.repo.GetOverrideByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, o.ProviderID, userID); err != nil {
		return err
	}
	return s.repo.DeleteOverride(ctx, id)
}

// --- Settings ---

func (s *service) GetSettings(ctx context.Context, providerID string, userID string) (*Settings, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetSettings(ctx, providerID)
}

func (s *service) UpdateSettings(ctx context.Context, providerID string, patch SettingsPatch, userID string) (*Settings, error) {
	if err := s.requireOwner(ctx, providerID, userID); err != nil {
		return nil, err
	}

	settings, err := s.repo.GetSettings(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if patch.Timezone != nil {
		settings.Timezone = *patch.Timezone
	}
	if patch.SlotDurationMinutes != nil {
		settings.SlotDurationMinutes = *patch.SlotDurationMinutes
	}
	if patch.BufferBeforeMinutes != nil {
		settings.BufferBeforeMinutes = *patch.BufferBeforeMinutes
	}
	if patch.BufferAfterMinutes != nil {
		settings.BufferAfterMinutes = *patch.BufferAfterMinutes
	}
	if patch.MinAdvanceHours != nil {
		settings.MinAdvanceHours = *patch.MinAdvanceHours
	}
	if patch.MaxAdvanceDays != nil {
		settings.MaxAdvanceDays = *patch.MaxAdvanceDays
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// --- Public read path ---

func (s *service) GetAvailableDates(ctx context.Context, providerID string, from, to timeutil.Date, now time.Time) ([]DateSummary, string, error) {
	settings, err := s.repo.GetSettings(ctx, providerID)
	if err != nil {
		return nil, "", err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, "", err
	}

	// The public path never reaches outside the booking window.
	today := timeutil.Today(now, loc)
	if from.Before(today) {
		from = today
	}
	if maxDate := today.AddDays(settings.MaxAdvanceDays); to.After(maxDate) {
		to = maxDate
	}
	if from.After(to) {
		return []DateSummary{}, settings.Timezone, nil
	}

	days, err := s.materialize(ctx, providerID, from, to)
	if err != nil {
		return nil, "", err
	}

	summaries := make([]DateSummary, len(days))
	for i, day := range days {
		summaries[i] = DateSummary{Date: day.Date, HasAvailability: day.IsOpen()}
	}
	return summaries, settings.Timezone, nil
}

func (s *service) GetAvailableSlots(ctx context.Context, providerID, offeringID string, date timeutil.Date, now time.Time) ([]Slot, string, error) {
	offering, err := s.offerings.GetBookable(ctx, offeringID)
	if err != nil {
		return nil, "", err
	}

	settings, err := s.repo.GetSettings(ctx, providerID)
	if err != nil {
		return nil, "", err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, "", err
	}

	today := timeutil.Today(now, loc)
	if date.Before(today) || timeutil.DaysBetween(today, date) > settings.MaxAdvanceDays {
		return []Slot{}, settings.Timezone, nil
	}

	days, err := s.materialize(ctx, providerID, date, date)
	if err != nil {
		return nil, "", err
	}
	open := days[0].Open

	duration := offering.DurationMinutes
	if duration <= 0 {
		duration = settings.SlotDurationMinutes
	}

	tiled := schedule.TileSlots(open, duration)
	if len(tiled) == 0 {
		return []Slot{}, settings.Timezone, nil
	}

	occupied, err := s.bookings.ListOccupied(ctx, providerID, date, date)
	if err != nil {
		return nil, "", err
	}
	schedule.MarkConflicts(tiled, occupied[date], settings.BufferBeforeMinutes, settings.BufferAfterMinutes)

	slots := make([]Slot, len(tiled))
	for i, t := range tiled {
		slots[i] = Slot{
			Date:      date,
			Start:     t.Window.Start,
			End:       t.Window.End,
			Available: t.Available,
		}
	}
	return slots, settings.Timezone, nil
}

func (s *service) ValidateBookingRequest(ctx context.Context, providerID, offeringID string, date timeutil.Date, start timeutil.Clock, now time.Time) (*BookingCandidate, error) {
	offering, err := s.offerings.GetBookable(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if offering.ProviderID != providerID {
		return nil, catalog.ErrNotFound
	}

	settings, err := s.repo.GetSettings(ctx, providerID)
	if err != nil {
		return nil, err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	duration := offering.DurationMinutes
	if duration <= 0 {
		duration = settings.SlotDurationMinutes
	}
	window := schedule.Range{Start: start, End: start + timeutil.Clock(duration)}
	if !window.Valid() {
		return nil, ErrTimeNotAvailable
	}

	if err := schedule.CheckBookingWindow(date, start, now, loc, settings.MinAdvanceHours, settings.MaxAdvanceDays); err != nil {
		var werr *schedule.WindowError
		if errors.As(err, &werr) {
			return nil, ErrOutsideBookingWindow.WithMessage(werr.Error())
		}
		return nil, err
	}

	days, err := s.materialize(ctx, providerID, date, date)
	if err != nil {
		return nil, err
	}
	if !schedule.WithinOpenIntervals(window, days[0].Open) {
		return nil, ErrTimeNotAvailable
	}

	occupied, err := s.bookings.ListOccupied(ctx, providerID, date, date)
	if err != nil {
		return nil, err
	}
	if _, conflict := schedule.FindConflict(window, occupied[date], settings.BufferBeforeMinutes, settings.BufferAfterMinutes); conflict {
		return nil, ErrSlotAlreadyBooked
	}

	return &BookingCandidate{
		ProviderID: providerID,
		OfferingID: offeringID,
		Date:       date,
		Window:     window,
		Settings:   settings,
	}, nil
}

// materialize resolves open intervals for every date in [from, to].
func (s *service) materialize(ctx context.Context, providerID string, from, to timeutil.Date) ([]schedule.DateAvailability, error) {
	rules, err := s.repo.ListActiveRules(ctx, providerID)
	if err != nil {
		return nil, err
	}
	rulesByWeekday := make(map[time.Weekday][]schedule.Range)
	for _, r := range rules {
		rulesByWeekday[r.Weekday] = append(rulesByWeekday[r.Weekday], schedule.Range{Start: r.Start, End: r.End})
	}

	overrideRows, err := s.repo.ListOverridesInRange(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}
	overrides := make(map[timeutil.Date]schedule.DayOverride, len(overrideRows))
	for _, o := range overrideRows {
		overrides[o.Date] = toDayOverride(o)
	}

	return schedule.MaterializeRange(from, to, rulesByWeekday, overrides), nil
}

func toDayOverride(o *Override) schedule.DayOverride {
	if o.Blocked {
		return schedule.DayOverride{Blocked: true}
	}
	if o.Start != nil && o.End != nil {
		return schedule.DayOverride{Window: &schedule.Range{Start: *o.Start, End: *o.End}}
	}
	return schedule.DayOverride{}
}

func toWeeklyRules(rules []*Rule) []schedule.WeeklyRule {
	out := make([]schedule.WeeklyRule, len(rules))
	for i, r := range rules {
		out[i] = schedule.WeeklyRule{
			ID:      r.ID,
			Weekday: r.Weekday,
			Window:  schedule.Range{Start: r.Start, End: r.End},
		}
	}
	return out
}

func validateRuleWindow(in RuleInput) error {
	w := schedule.Range{Start: in.Start, End: in.End}
	if !w.Valid() {
		return ErrInvalidTimeRange
	}
	if in.Weekday < time.Sunday || in.Weekday > time.Saturday {
		return ErrInvalidTimeRange.WithMessage("day of week must be between 0 (Sunday) and 6 (Saturday)")
	}
	return nil
}

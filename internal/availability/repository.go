package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

// Repository defines storage access for rules, overrides and settings.
// Clock values are persisted as minutes since midnight; dates as SQL DATE.
type Repository interface {
	CreateRule(ctx context.Context, r *Rule) error
	GetRule(ctx context.Context, id string) (*Rule, error)
	ListRules(ctx context.Context, providerID string) ([]*Rule, error)
	ListActiveRules(ctx context.Context, providerID string) ([]*Rule, error)
	UpdateRule(ctx context.Context, r *Rule) error
	DeleteRule(ctx context.Context, id string) error
	// ReplaceRules atomically swaps a provider's entire rule set.
	ReplaceRules(ctx context.Context, providerID string, rules []*Rule) error

	CreateOverride(ctx context.Context, o *Override) error
	GetOverride(ctx context.Context, providerID string, date timeutil.Date) (*Override, error)
	GetOverrideByID(ctx context.Context, id string) (*Override, error)
	ListOverridesInRange(ctx context.Context, providerID string, from, to timeutil.Date) ([]*Override, error)
	DeleteOverride(ctx context.Context, id string) error

	// GetSettings returns the provider's settings, creating the default row
	// on first access.
	GetSettings(ctx context.Context, providerID string) (*Settings, error)
	UpdateSettings(ctx context.Context, s *Settings) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateRule(ctx context.Context, rule *Rule) error {
	const query = `
		INSERT INTO public.availability_rules (provider_id, day_of_week, start_min, end_min, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		rule.ProviderID, int(rule.Weekday), int(rule.Start), int(rule.End), rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create availability rule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetRule(ctx context.Context, id string) (*Rule, error) {
	const query = `
		SELECT id, provider_id, day_of_week, start_min, end_min, is_active, created_at, updated_at
		FROM public.availability_rules
		WHERE id = $1`

	rule, err := scanRule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("get availability rule failed: %w", err)
	}
	return rule, nil
}

func (r *pgxRepository) ListRules(ctx context.Context, providerID string) ([]*Rule, error) {
	return r.listRules(ctx, providerID, false)
}

func (r *pgxRepository) ListActiveRules(ctx context.Context, providerID string) ([]*Rule, error) {
	return r.listRules(ctx, providerID, true)
}

func (r *pgxRepository) listRules(ctx context.Context, providerID string, activeOnly bool) ([]*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "provider_id", "day_of_week", "start_min", "end_min", "is_active", "created_at", "updated_at").
		From("public.availability_rules").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week", "start_min")

	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability rules failed: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule failed: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *pgxRepository) UpdateRule(ctx context.Context, rule *Rule) error {
	const query = `
		UPDATE public.availability_rules
		SET day_of_week = $2, start_min = $3, end_min = $4, is_active = $5, updated_at = now()
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query,
		rule.ID, int(rule.Weekday), int(rule.Start), int(rule.End), rule.IsActive)
	if err != nil {
		return fmt.Errorf("update availability rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteRule(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.availability_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *pgxRepository) ReplaceRules(ctx context.Context, providerID string, rules []*Rule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace rules failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM public.availability_rules WHERE provider_id = $1`, providerID); err != nil {
		return fmt.Errorf("clear availability rules failed: %w", err)
	}

	const insert = `
		INSERT INTO public.availability_rules (provider_id, day_of_week, start_min, end_min, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	for _, rule := range rules {
		err := tx.QueryRow(ctx, insert,
			providerID, int(rule.Weekday), int(rule.Start), int(rule.End), rule.IsActive,
		).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert replacement rule failed: %w", err)
		}
		rule.ProviderID = providerID
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) CreateOverride(ctx context.Context, o *Override) error {
	const query = `
		INSERT INTO public.availability_overrides (provider_id, date, blocked, start_min, end_min, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		o.ProviderID, o.Date.String(), o.Blocked, clockPtrToInt(o.Start), clockPtrToInt(o.End), o.Note,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrOverrideExists
		}
		return fmt.Errorf("create availability override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetOverride(ctx context.Context, providerID string, date timeutil.Date) (*Override, error) {
	const query = `
		SELECT id, provider_id, date, blocked, start_min, end_min, note, created_at
		FROM public.availability_overrides
		WHERE provider_id = $1 AND date = $2`

	o, err := scanOverride(r.pool.QueryRow(ctx, query, providerID, date.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("get availability override failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) GetOverrideByID(ctx context.Context, id string) (*Override, error) {
	const query = `
		SELECT id, provider_id, date, blocked, start_min, end_min, note, created_at
		FROM public.availability_overrides
		WHERE id = $1`

	o, err := scanOverride(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("get availability override failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) ListOverridesInRange(ctx context.Context, providerID string, from, to timeutil.Date) ([]*Override, error) {
	const query = `
		SELECT id, provider_id, date, blocked, start_min, end_min, note, created_at
		FROM public.availability_overrides
		WHERE provider_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`

	rows, err := r.pool.Query(ctx, query, providerID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list availability overrides failed: %w", err)
	}
	defer rows.Close()

	var overrides []*Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability override failed: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

func (r *pgxRepository) DeleteOverride(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM public.availability_overrides WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("delete availability override failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (r *pgxRepository) GetSettings(ctx context.Context, providerID string) (*Settings, error) {
	// Lazy creation: insert defaults, ignore if the row already exists.
	defaults := DefaultSettings(providerID)
	const upsert = `
		INSERT INTO public.availability_settings
			(provider_id, timezone, slot_duration_minutes, buffer_before_minutes, buffer_after_minutes, min_advance_hours, max_advance_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, upsert,
		defaults.ProviderID, defaults.Timezone, defaults.SlotDurationMinutes,
		defaults.BufferBeforeMinutes, defaults.BufferAfterMinutes,
		defaults.MinAdvanceHours, defaults.MaxAdvanceDays)
	if err != nil {
		return nil, fmt.Errorf("ensure availability settings failed: %w", err)
	}

	const query = `
		SELECT provider_id, timezone, slot_duration_minutes, buffer_before_minutes, buffer_after_minutes, min_advance_hours, max_advance_days, updated_at
		FROM public.availability_settings
		WHERE provider_id = $1`

	var s Settings
	if err := r.pool.QueryRow(ctx, query, providerID).Scan(
		&s.ProviderID, &s.Timezone, &s.SlotDurationMinutes, &s.BufferBeforeMinutes,
		&s.BufferAfterMinutes, &s.MinAdvanceHours, &s.MaxAdvanceDays, &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("get availability settings failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) UpdateSettings(ctx context.Context, s *Settings) error {
	const query = `
		UPDATE public.availability_settings
		SET timezone = $2, slot_duration_minutes = $3, buffer_before_minutes = $4,
		    buffer_after_minutes = $5, min_advance_hours = $6, max_advance_days = $7,
		    updated_at = now()
		WHERE provider_id = $1`

	ct, err := r.pool.Exec(ctx, query,
		s.ProviderID, s.Timezone, s.SlotDurationMinutes, s.BufferBeforeMinutes,
		s.BufferAfterMinutes, s.MinAdvanceHours, s.MaxAdvanceDays)
	if err != nil {
		return fmt.Errorf("update availability settings failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("availability settings row missing for provider %s", s.ProviderID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*Rule, error) {
	var rule Rule
	var weekday, startMin, endMin int
	if err := row.Scan(
		&rule.ID, &rule.ProviderID, &weekday, &startMin, &endMin,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rule.Weekday = time.Weekday(weekday)
	rule.Start = timeutil.Clock(startMin)
	rule.End = timeutil.Clock(endMin)
	return &rule, nil
}

func scanOverride(row rowScanner) (*Override, error) {
	var o Override
	var date time.Time
	var startMin, endMin *int
	if err := row.Scan(
		&o.ID, &o.ProviderID, &date, &o.Blocked, &startMin, &endMin, &o.Note, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.Date = timeutil.DateOf(date)
	o.Start = intPtrToClock(startMin)
	o.End = intPtrToClock(endMin)
	return &o, nil
}

func clockPtrToInt(c *timeutil.Clock) *int {
	if c == nil {
		return nil
	}
	v := int(*c)
	return &v
}

func intPtrToClock(v *int) *timeutil.Clock {
	if v == nil {
		return nil
	}
	c := timeutil.Clock(*v)
	return &c
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
	"github.com/tidemill/bookable-backend/internal/schedule"
)

type Filter struct {
	ProviderID string
	UserID     string
	Status     Status
	FromDate   *timeutil.Date
	ToDate     *timeutil.Date
	Page       int
	PageSize   int
}

type Repository interface {
	// CreateSerialized inserts the booking under a provider-scoped advisory
	// lock. recheck receives the provider's same-date blocking bookings as
	// seen inside the transaction; returning an error aborts the insert.
	CreateSerialized(ctx context.Context, b *Booking, recheck func(existing []schedule.Occupied) error) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListOccupied returns blocking bookings per date in [from, to].
	ListOccupied(ctx context.Context, providerID string, from, to timeutil.Date) (map[timeutil.Date][]schedule.Occupied, error)
}

const bookingColumns = `id, provider_id, service_id, user_id, date, start_min, end_min, status, note, created_at, updated_at`

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateSerialized(ctx context.Context, b *Booking, recheck func(existing []schedule.Occupied) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent bookings for the same provider. The lock is
	// released automatically at commit or rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, b.ProviderID); err != nil {
		return fmt.Errorf("acquire provider lock failed: %w", err)
	}

	const occupiedQuery = `
		SELECT id, start_min, end_min
		FROM public.bookings
		WHERE provider_id = $1 AND date = $2 AND status <> $3`

	rows, err := tx.Query(ctx, occupiedQuery, b.ProviderID, b.Date.String(), StatusCancelled)
	if err != nil {
		return fmt.Errorf("list blocking bookings failed: %w", err)
	}
	existing, err := scanOccupied(rows)
	if err != nil {
		return err
	}

	if err := recheck(existing); err != nil {
		return err
	}

	const insertQuery = `
		INSERT INTO public.bookings (provider_id, service_id, user_id, date, start_min, end_min, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, insertQuery,
		b.ProviderID, b.ServiceID, b.UserID, b.Date.String(),
		int(b.Start), int(b.End), b.Status, b.Note,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.bookings WHERE id = $1`, bookingColumns)

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "provider_id", "service_id", "user_id", "date",
		"start_min", "end_min", "status", "note", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings")

	if filter.ProviderID != "" {
		query = query.Where(squirrel.Eq{"provider_id": filter.ProviderID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.FromDate != nil {
		query = query.Where(squirrel.GtOrEq{"date": filter.FromDate.String()})
	}
	if filter.ToDate != nil {
		query = query.Where(squirrel.LtOrEq{"date": filter.ToDate.String()})
	}

	query = query.OrderBy("date DESC", "start_min DESC")
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		var date time.Time
		var startMin, endMin int
		if err := rows.Scan(
			&b.ID, &b.ProviderID, &b.ServiceID, &b.UserID, &date,
			&startMin, &endMin, &b.Status, &b.Note, &b.CreatedAt, &b.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		b.Date = timeutil.DateOf(date)
		b.Start = timeutil.Clock(startMin)
		b.End = timeutil.Clock(endMin)
		bookings = append(bookings, &b)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE public.bookings SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListOccupied(ctx context.Context, providerID string, from, to timeutil.Date) (map[timeutil.Date][]schedule.Occupied, error) {
	const query = `
		SELECT id, date, start_min, end_min
		FROM public.bookings
		WHERE provider_id = $1 AND date >= $2 AND date <= $3 AND status <> $4
		ORDER BY date, start_min`

	rows, err := r.pool.Query(ctx, query, providerID, from.String(), to.String(), StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("list occupied bookings failed: %w", err)
	}
	defer rows.Close()

	occupied := map[timeutil.Date][]schedule.Occupied{}
	for rows.Next() {
		var id string
		var date time.Time
		var startMin, endMin int
		if err := rows.Scan(&id, &date, &startMin, &endMin); err != nil {
			return nil, fmt.Errorf("scan occupied booking failed: %w", err)
		}
		occupied[timeutil.DateOf(date)] = append(occupied[timeutil.DateOf(date)], schedule.Occupied{
			ID:     id,
			Window: schedule.Range{Start: timeutil.Clock(startMin), End: timeutil.Clock(endMin)},
		})
	}
	return occupied, nil
}

func scanOccupied(rows pgx.Rows) ([]schedule.Occupied, error) {
	defer rows.Close()

	var occupied []schedule.Occupied
	for rows.Next() {
		var id string
		var startMin, endMin int
		if err := rows.Scan(&id, &startMin, &endMin); err != nil {
			return nil, fmt.Errorf("scan blocking booking failed: %w", err)
		}
		occupied = append(occupied, schedule.Occupied{
			ID:     id,
			Window: schedule.Range{Start: timeutil.Clock(startMin), End: timeutil.Clock(endMin)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read blocking bookings failed: %w", err)
	}
	return occupied, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	var date time.Time
	var startMin, endMin int
	if err := row.Scan(
		&b.ID, &b.ProviderID, &b.ServiceID, &b.UserID, &date,
		&startMin, &endMin, &b.Status, &b.Note, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Date = timeutil.DateOf(date)
	b.Start = timeutil.Clock(startMin)
	b.End = timeutil.Clock(endMin)
	return &b, nil
}

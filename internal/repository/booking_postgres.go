package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lokon/internal/domain"
)

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingSelect = `
	SELECT b.id, b.master_id, b.client_id, b.service_id, b.starts_at, b.ends_at,
	       b.status, b.confirmation_code, b.notes, b.price, b.created_at, b.updated_at,
	       c.first_name || ' ' || c.last_name AS client_name,
	       m.first_name || ' ' || m.last_name AS master_name,
	       s.name AS service_name
	FROM bookings b
	JOIN users c ON c.id = b.client_id
	JOIN masters mr ON mr.id = b.master_id
	JOIN users m ON m.id = mr.user_id
	JOIN services s ON s.id = b.service_id
`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.MasterID,
		&booking.ClientID,
		&booking.ServiceID,
		&booking.StartsAt,
		&booking.EndsAt,
		&booking.Status,
		&booking.ConfirmationCode,
		&booking.Notes,
		&booking.Price,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.ClientName,
		&booking.MasterName,
		&booking.ServiceName,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Create вставляет запись в транзакции. Перед вставкой интервал повторно
// проверяется на пересечение с активными записями мастера, а exclusion-
// ограничение на tstzrange в таблице bookings страхует от гонки между
// конкурентными транзакциями.
func (r *BookingRepo) Create(ctx context.Context, booking domain.Booking) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var overlapping int
	checkQuery := `
		SELECT COUNT(*)
		FROM bookings
		WHERE master_id = $1
		  AND status <> 'cancelled'
		  AND starts_at < $3
		  AND ends_at > $2
	`

	err = tx.QueryRow(ctx, checkQuery, booking.MasterID, booking.StartsAt, booking.EndsAt).Scan(&overlapping)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости интервала: %w", err)
	}

	if overlapping > 0 {
		return 0, fmt.Errorf("мастер занят в интервале %s - %s: %w",
			booking.StartsAt.Format(time.RFC3339), booking.EndsAt.Format(time.RFC3339), domain.ErrSlotConflict)
	}

	var id int64
	insertQuery := `
		INSERT INTO bookings (master_id, client_id, service_id, starts_at, ends_at,
		                      status, confirmation_code, notes, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id
	`

	err = tx.QueryRow(ctx, insertQuery,
		booking.MasterID,
		booking.ClientID,
		booking.ServiceID,
		booking.StartsAt,
		booking.EndsAt,
		booking.Status,
		booking.ConfirmationCode,
		booking.Notes,
		booking.Price,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if isOverlapViolation(err) {
			return 0, fmt.Errorf("мастер занят в интервале %s - %s: %w",
				booking.StartsAt.Format(time.RFC3339), booking.EndsAt.Format(time.RFC3339), domain.ErrSlotConflict)
		}
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isOverlapViolation(err) {
			return 0, fmt.Errorf("мастер занят в интервале %s - %s: %w",
				booking.StartsAt.Format(time.RFC3339), booking.EndsAt.Format(time.RFC3339), domain.ErrSlotConflict)
		}
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return id, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := bookingSelect + ` WHERE b.id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("запись с id %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return booking, nil
}

func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	query := bookingSelect + ` WHERE b.confirmation_code = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("запись с кодом %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return booking, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("запись с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func buildBookingFilter(filter domain.BookingFilter) (string, []interface{}) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("b.client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.MasterID != nil {
		conditions = append(conditions, fmt.Sprintf("b.master_id = $%d", argCount))
		args = append(args, *filter.MasterID)
		argCount++
	}

	if filter.ServiceID != nil {
		conditions = append(conditions, fmt.Sprintf("b.service_id = $%d", argCount))
		args = append(args, *filter.ServiceID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.ExcludeStatus != nil {
		conditions = append(conditions, fmt.Sprintf("b.status <> $%d", argCount))
		args = append(args, *filter.ExcludeStatus)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.ends_at > $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.starts_at < $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args
}

func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	where, args := buildBookingFilter(filter)

	query := bookingSelect + where + " ORDER BY b.starts_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return bookings, nil
}

func (r *BookingRepo) CountByFilter(ctx context.Context, filter domain.BookingFilter) (int, error) {
	where, args := buildBookingFilter(filter)

	query := `
		SELECT COUNT(*)
		FROM bookings b
	` + where

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return total, nil
}

// ListBusyIntervals возвращает интервалы активных записей мастера,
// пересекающих [from, to), в порядке начала.
func (r *BookingRepo) ListBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.Interval, error) {
	query := `
		SELECT starts_at, ends_at
		FROM bookings
		WHERE master_id = $1
		  AND status <> 'cancelled'
		  AND starts_at < $3
		  AND ends_at > $2
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, masterID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения занятых интервалов: %w", err)
	}
	defer rows.Close()

	intervals := make([]domain.Interval, 0)
	for rows.Next() {
		var interval domain.Interval
		if err := rows.Scan(&interval.Start, &interval.End); err != nil {
			return nil, fmt.Errorf("ошибка сканирования интервала: %w", err)
		}
		intervals = append(intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return intervals, nil
}

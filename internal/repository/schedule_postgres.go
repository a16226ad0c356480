package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lokon/internal/domain"
)

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Коды ошибок PostgreSQL: нарушение exclusion- и unique-ограничений.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
	}
	return false
}

func (r *ScheduleRepo) CreateWindow(ctx context.Context, window domain.WorkingWindow) (int64, error) {
	startMin, err := domain.ClockToMinutes(window.StartTime)
	if err != nil {
		return 0, err
	}
	endMin, err := domain.ClockToMinutes(window.EndTime)
	if err != nil {
		return 0, err
	}

	var id int64
	query := `
		INSERT INTO working_windows (master_id, weekday, start_min, end_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	err = r.db.QueryRow(ctx, query, window.MasterID, window.Weekday, startMin, endMin, time.Now()).Scan(&id)
	if err != nil {
		if isOverlapViolation(err) {
			return 0, fmt.Errorf("рабочее окно пересекается с существующим: %w", domain.ErrSlotConflict)
		}
		return 0, fmt.Errorf("ошибка создания рабочего окна: %w", err)
	}

	return id, nil
}

func scanWindow(row pgx.Row) (*domain.WorkingWindow, error) {
	var window domain.WorkingWindow
	var startMin, endMin int

	err := row.Scan(
		&window.ID,
		&window.MasterID,
		&window.Weekday,
		&startMin,
		&endMin,
		&window.CreatedAt,
		&window.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	window.StartTime = domain.MinutesToClock(startMin)
	window.EndTime = domain.MinutesToClock(endMin)
	return &window, nil
}

func (r *ScheduleRepo) GetWindowByID(ctx context.Context, id int64) (*domain.WorkingWindow, error) {
	query := `
		SELECT id, master_id, weekday, start_min, end_min, created_at, updated_at
		FROM working_windows
		WHERE id = $1
	`

	window, err := scanWindow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("рабочее окно с id %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения рабочего окна: %w", err)
	}

	return window, nil
}

func (r *ScheduleRepo) UpdateWindow(ctx context.Context, window domain.WorkingWindow) error {
	startMin, err := domain.ClockToMinutes(window.StartTime)
	if err != nil {
		return err
	}
	endMin, err := domain.ClockToMinutes(window.EndTime)
	if err != nil {
		return err
	}

	query := `
		UPDATE working_windows
		SET start_min = $1, end_min = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, startMin, endMin, time.Now(), window.ID)
	if err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("рабочее окно пересекается с существующим: %w", domain.ErrSlotConflict)
		}
		return fmt.Errorf("ошибка обновления рабочего окна: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("рабочее окно с id %d: %w", window.ID, domain.ErrNotFound)
	}

	return nil
}

func (r *ScheduleRepo) DeleteWindow(ctx context.Context, id int64) error {
	query := `DELETE FROM working_windows WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления рабочего окна: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("рабочее окно с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *ScheduleRepo) ListWindowsByMaster(ctx context.Context, masterID int64) ([]domain.WorkingWindow, error) {
	query := `
		SELECT id, master_id, weekday, start_min, end_min, created_at, updated_at
		FROM working_windows
		WHERE master_id = $1
		ORDER BY weekday, start_min
	`

	rows, err := r.db.Query(ctx, query, masterID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рабочих окон: %w", err)
	}
	defer rows.Close()

	windows := make([]domain.WorkingWindow, 0)
	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки рабочего окна: %w", err)
		}
		windows = append(windows, *window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return windows, nil
}

func (r *ScheduleRepo) CreateBlackout(ctx context.Context, masterID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	var id int64
	query := `
		INSERT INTO blackout_periods (master_id, starts_at, ends_at, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, masterID, dto.StartsAt, dto.EndsAt, dto.Reason, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания периода недоступности: %w", err)
	}

	return id, nil
}

func (r *ScheduleRepo) GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	query := `
		SELECT id, master_id, starts_at, ends_at, reason, created_at
		FROM blackout_periods
		WHERE id = $1
	`

	var blackout domain.BlackoutPeriod
	err := r.db.QueryRow(ctx, query, id).Scan(
		&blackout.ID,
		&blackout.MasterID,
		&blackout.StartsAt,
		&blackout.EndsAt,
		&blackout.Reason,
		&blackout.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("период недоступности с id %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения периода недоступности: %w", err)
	}

	return &blackout, nil
}

func (r *ScheduleRepo) DeleteBlackout(ctx context.Context, id int64) error {
	query := `DELETE FROM blackout_periods WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления периода недоступности: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("период недоступности с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *ScheduleRepo) ListBlackouts(ctx context.Context, masterID int64, from, to time.Time) ([]domain.BlackoutPeriod, error) {
	query := `
		SELECT id, master_id, starts_at, ends_at, reason, created_at
		FROM blackout_periods
		WHERE master_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, masterID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения периодов недоступности: %w", err)
	}
	defer rows.Close()

	blackouts := make([]domain.BlackoutPeriod, 0)
	for rows.Next() {
		var blackout domain.BlackoutPeriod
		if err := rows.Scan(
			&blackout.ID,
			&blackout.MasterID,
			&blackout.StartsAt,
			&blackout.EndsAt,
			&blackout.Reason,
			&blackout.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки периода недоступности: %w", err)
		}
		blackouts = append(blackouts, blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return blackouts, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lokon/internal/domain"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, notification domain.Notification) (int64, error) {
	var id int64
	query := `
		INSERT INTO notifications (user_id, booking_id, type, status, priority,
		                           subject, message, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.BookingID,
		notification.Type,
		notification.Status,
		notification.Priority,
		notification.Subject,
		notification.Message,
		notification.ScheduledAt,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания уведомления: %w", err)
	}

	return id, nil
}

// ListDue возвращает уведомления, ожидающие отправки, вместе с контактами
// получателя. Высокий приоритет уходит первым.
func (r *NotificationRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.booking_id, n.type, n.status, n.priority,
		       n.subject, n.message, n.scheduled_at, n.sent_at, n.response,
		       n.created_at, n.updated_at,
		       u.email, u.first_name || ' ' || u.last_name
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE n.status = 'pending' AND n.scheduled_at <= $1
		ORDER BY
			CASE n.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			n.scheduled_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений к отправке: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.BookingID,
			&n.Type,
			&n.Status,
			&n.Priority,
			&n.Subject,
			&n.Message,
			&n.ScheduledAt,
			&n.SentAt,
			&n.Response,
			&n.CreatedAt,
			&n.UpdatedAt,
			&n.RecipientEmail,
			&n.RecipientName,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time, response string) error {
	query := `
		UPDATE notifications
		SET status = 'sent', sent_at = $1, response = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, sentAt, response, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса уведомления: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("уведомление с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *NotificationRepo) MarkFailed(ctx context.Context, id int64, response string) error {
	query := `
		UPDATE notifications
		SET status = 'failed', response = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, response, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса уведомления: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("уведомление с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CancelPendingByBookingID снимает с отправки напоминания отменённой записи.
func (r *NotificationRepo) CancelPendingByBookingID(ctx context.Context, bookingID int64) error {
	query := `
		UPDATE notifications
		SET status = 'cancelled', updated_at = $1
		WHERE booking_id = $2 AND status = 'pending'
	`

	if _, err := r.db.Exec(ctx, query, time.Now(), bookingID); err != nil {
		return fmt.Errorf("ошибка отмены уведомлений записи: %w", err)
	}

	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, booking_id, type, status, priority,
		       subject, message, scheduled_at, sent_at, response, created_at, updated_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений пользователя: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.BookingID,
			&n.Type,
			&n.Status,
			&n.Priority,
			&n.Subject,
			&n.Message,
			&n.ScheduledAt,
			&n.SentAt,
			&n.Response,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return notifications, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/domain"
	"lokon/internal/repository"
	"lokon/pkg/email"
)

type NotificationServiceImpl struct {
	repo   repository.NotificationRepository
	sender email.Sender
	cfg    config.BookingConfig
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, sender email.Sender, cfg config.BookingConfig, logger *zap.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo:   repo,
		sender: sender,
		cfg:    cfg,
		logger: logger,
	}
}

// ScheduleBookingNotifications ставит в очередь подтверждение записи
// и напоминание. Напоминание планируется за ReminderLead до начала и
// пропускается, если запись создана позже этого срока.
func (s *NotificationServiceImpl) ScheduleBookingNotifications(ctx context.Context, booking *domain.Booking) error {
	now := time.Now()

	confirmation := domain.Notification{
		UserID:      booking.ClientID,
		BookingID:   &booking.ID,
		Type:        domain.NotificationTypeConfirmation,
		Status:      domain.NotificationStatusPending,
		Priority:    domain.NotificationPriorityHigh,
		Subject:     "Ваша запись создана",
		Message:     confirmationMessage(booking),
		ScheduledAt: now,
	}

	if _, err := s.repo.Create(ctx, confirmation); err != nil {
		return err
	}

	reminderAt := booking.StartsAt.Add(-s.cfg.ReminderLead)
	if reminderAt.After(now) {
		reminder := domain.Notification{
			UserID:      booking.ClientID,
			BookingID:   &booking.ID,
			Type:        domain.NotificationTypeReminder,
			Status:      domain.NotificationStatusPending,
			Priority:    domain.NotificationPriorityMedium,
			Subject:     "Напоминание о записи",
			Message:     reminderMessage(booking),
			ScheduledAt: reminderAt,
		}

		if _, err := s.repo.Create(ctx, reminder); err != nil {
			return err
		}
	}

	return nil
}

func (s *NotificationServiceImpl) NotifyCancellation(ctx context.Context, booking *domain.Booking) error {
	cancellation := domain.Notification{
		UserID:      booking.ClientID,
		BookingID:   &booking.ID,
		Type:        domain.NotificationTypeCancellation,
		Status:      domain.NotificationStatusPending,
		Priority:    domain.NotificationPriorityHigh,
		Subject:     "Ваша запись отменена",
		Message:     cancellationMessage(booking),
		ScheduledAt: time.Now(),
	}

	_, err := s.repo.Create(ctx, cancellation)
	return err
}

func (s *NotificationServiceImpl) CancelPending(ctx context.Context, bookingID int64) error {
	return s.repo.CancelPendingByBookingID(ctx, bookingID)
}

// DispatchDue отправляет созревшие уведомления. Без настроенного SMTP
// уведомления остаются в очереди до появления отправителя.
func (s *NotificationServiceImpl) DispatchDue(ctx context.Context) error {
	if s.sender == nil {
		return nil
	}

	due, err := s.repo.ListDue(ctx, time.Now(), s.cfg.DispatchBatchSize)
	if err != nil {
		return err
	}

	for _, n := range due {
		if err := s.sender.Send(n.RecipientEmail, n.Subject, n.Message); err != nil {
			s.logger.Warn("ошибка отправки уведомления",
				zap.Int64("notificationId", n.ID),
				zap.String("type", string(n.Type)),
				zap.Error(err))

			if markErr := s.repo.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				s.logger.Error("ошибка пометки уведомления", zap.Int64("notificationId", n.ID), zap.Error(markErr))
			}
			continue
		}

		if err := s.repo.MarkSent(ctx, n.ID, time.Now(), "ok"); err != nil {
			s.logger.Error("ошибка пометки уведомления", zap.Int64("notificationId", n.ID), zap.Error(err))
		}
	}

	return nil
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// StartDispatcher запускает поминутный обход очереди уведомлений.
func (s *NotificationServiceImpl) StartDispatcher(ctx context.Context) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("* * * * *", func() {
		if err := s.DispatchDue(ctx); err != nil {
			s.logger.Error("ошибка диспетчера уведомлений", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("ошибка регистрации задачи диспетчера", zap.Error(err))
		return c
	}

	c.Start()
	s.logger.Info("диспетчер уведомлений запущен")

	return c
}

func confirmationMessage(b *domain.Booking) string {
	return fmt.Sprintf(
		"<h2>Здравствуйте, %s!</h2><p>Вы записаны на услугу «%s» к мастеру %s.</p><p>Начало: %s.</p><p>Код подтверждения: <b>%s</b></p>",
		b.ClientName, b.ServiceName, b.MasterName, b.StartsAt.Format("02.01.2006 15:04"), b.ConfirmationCode,
	)
}

func reminderMessage(b *domain.Booking) string {
	return fmt.Sprintf(
		"<h2>Напоминаем о записи</h2><p>Услуга «%s» у мастера %s.</p><p>Начало: %s.</p>",
		b.ServiceName, b.MasterName, b.StartsAt.Format("02.01.2006 15:04"),
	)
}

func cancellationMessage(b *domain.Booking) string {
	return fmt.Sprintf(
		"<h2>Запись отменена</h2><p>Услуга «%s» у мастера %s, начало %s.</p>",
		b.ServiceName, b.MasterName, b.StartsAt.Format("02.01.2006 15:04"),
	)
}

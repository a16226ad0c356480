package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/cache"
	"lokon/internal/domain"
	"lokon/internal/repository"
)

type BookingServiceImpl struct {
	repo         repository.BookingRepository
	masterRepo   repository.MasterRepository
	userRepo     repository.UserRepository
	catalogRepo  repository.CatalogRepository
	availability AvailabilityService
	notification NotificationService
	cache        *cache.AvailabilityCache
	cfg          config.BookingConfig
	logger       *zap.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	masterRepo repository.MasterRepository,
	userRepo repository.UserRepository,
	catalogRepo repository.CatalogRepository,
	availability AvailabilityService,
	notification NotificationService,
	availabilityCache *cache.AvailabilityCache,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *BookingServiceImpl {
	return &BookingServiceImpl{
		repo:         repo,
		masterRepo:   masterRepo,
		userRepo:     userRepo,
		catalogRepo:  catalogRepo,
		availability: availability,
		notification: notification,
		cache:        availabilityCache,
		cfg:          cfg,
		logger:       logger,
	}
}

// Create проводит запись через полный цикл проверок: существование
// клиента, мастера и услуги, минимальный срок до начала, попадание в
// расписание мастера. Последнее слово за хранилищем, которое отклонит
// пересечение с конкурентной записью.
func (s *BookingServiceImpl) Create(ctx context.Context, clientID int64, dto domain.CreateBookingDTO) (*domain.Booking, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	master, err := s.masterRepo.GetByID(ctx, dto.MasterID)
	if err != nil {
		return nil, err
	}
	if !master.IsActive {
		return nil, fmt.Errorf("мастер с id %d: %w", dto.MasterID, domain.ErrNotFound)
	}

	svc, err := s.catalogRepo.GetByID(ctx, dto.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("услуга с id %d: %w", dto.ServiceID, domain.ErrNotFound)
	}

	startsAt := dto.StartsAt.UTC()
	if startsAt.Before(time.Now().Add(time.Duration(svc.MinimumNotice) * time.Hour)) {
		return nil, fmt.Errorf("запись на услугу %q возможна минимум за %d ч. до начала: %w", svc.Name, svc.MinimumNotice, domain.ErrMinimumNotice)
	}

	interval := domain.Interval{
		Start: startsAt,
		End:   startsAt.Add(time.Duration(svc.DurationMinutes) * time.Minute),
	}

	fits, err := s.availability.FitsSchedule(ctx, dto.MasterID, interval)
	if err != nil {
		return nil, err
	}
	if !fits {
		return nil, fmt.Errorf("интервал %s - %s: %w",
			interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), domain.ErrOutsideWorkingHours)
	}

	booking := domain.Booking{
		MasterID:         dto.MasterID,
		ClientID:         clientID,
		ServiceID:        dto.ServiceID,
		StartsAt:         interval.Start,
		EndsAt:           interval.End,
		Status:           domain.BookingStatusPending,
		ConfirmationCode: uuid.New().String(),
		Notes:            dto.Notes,
		Price:            svc.Price,
	}

	id, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, dto.MasterID)

	if err := s.notification.ScheduleBookingNotifications(ctx, created); err != nil {
		s.logger.Warn("ошибка планирования уведомлений записи",
			zap.Int64("bookingId", id), zap.Error(err))
	}

	s.logger.Info("создана запись",
		zap.Int64("bookingId", id),
		zap.Int64("clientId", client.ID),
		zap.Int64("masterId", dto.MasterID),
		zap.Time("startsAt", interval.Start))

	return created, nil
}

func (s *BookingServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookingServiceImpl) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *BookingServiceImpl) Confirm(ctx context.Context, id int64) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case domain.BookingStatusCancelled:
		return fmt.Errorf("запись %d: %w", id, domain.ErrBookingCancelled)
	case domain.BookingStatusPending:
	default:
		return fmt.Errorf("запись %d уже в статусе %s: %w", id, booking.Status, domain.ErrInvalidStatus)
	}

	return s.repo.UpdateStatus(ctx, id, domain.BookingStatusConfirmed)
}

func (s *BookingServiceImpl) Complete(ctx context.Context, id int64) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case domain.BookingStatusCancelled:
		return fmt.Errorf("запись %d: %w", id, domain.ErrBookingCancelled)
	case domain.BookingStatusConfirmed:
	default:
		return fmt.Errorf("завершить можно только подтвержденную запись, текущий статус %s: %w", booking.Status, domain.ErrInvalidStatus)
	}

	return s.repo.UpdateStatus(ctx, id, domain.BookingStatusCompleted)
}

// Cancel переводит запись в терминальный статус и освобождает интервал.
// Отмена идемпотентна только в одну сторону: повторная отмена и любые
// операции над отмененной записью отклоняются.
func (s *BookingServiceImpl) Cancel(ctx context.Context, id int64) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == domain.BookingStatusCancelled {
		return fmt.Errorf("запись %d: %w", id, domain.ErrBookingCancelled)
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.BookingStatusCancelled); err != nil {
		return err
	}

	s.invalidate(ctx, booking.MasterID)

	if err := s.notification.CancelPending(ctx, id); err != nil {
		s.logger.Warn("ошибка отмены запланированных уведомлений", zap.Int64("bookingId", id), zap.Error(err))
	}

	if err := s.notification.NotifyCancellation(ctx, booking); err != nil {
		s.logger.Warn("ошибка отправки уведомления об отмене", zap.Int64("bookingId", id), zap.Error(err))
	}

	s.logger.Info("отменена запись", zap.Int64("bookingId", id), zap.Int64("masterId", booking.MasterID))

	return nil
}

func (s *BookingServiceImpl) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (s *BookingServiceImpl) invalidate(ctx context.Context, masterID int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateMaster(ctx, masterID); err != nil {
		s.logger.Warn("ошибка инвалидации кеша расписания", zap.Int64("masterId", masterID), zap.Error(err))
	}
}

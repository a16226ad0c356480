package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lokon/internal/cache"
	"lokon/internal/domain"
	"lokon/internal/repository"
)

type ScheduleServiceImpl struct {
	repo       repository.ScheduleRepository
	masterRepo repository.MasterRepository
	cache      *cache.AvailabilityCache
	logger     *zap.Logger
}

func NewScheduleService(repo repository.ScheduleRepository, masterRepo repository.MasterRepository, availabilityCache *cache.AvailabilityCache, logger *zap.Logger) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:       repo,
		masterRepo: masterRepo,
		cache:      availabilityCache,
		logger:     logger,
	}
}

// validateWindowTimes разбирает границы окна и проверяет, что начало
// строго раньше конца. Окна через полночь не поддерживаются.
func validateWindowTimes(startTime, endTime string) (int, int, error) {
	startMin, err := domain.ClockToMinutes(startTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInterval)
	}

	endMin, err := domain.ClockToMinutes(endTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInterval)
	}

	if startMin >= endMin {
		return 0, 0, fmt.Errorf("окно %s-%s: %w", startTime, endTime, domain.ErrInvalidInterval)
	}

	return startMin, endMin, nil
}

func (s *ScheduleServiceImpl) CreateWindow(ctx context.Context, masterID int64, dto domain.CreateWorkingWindowDTO) (int64, error) {
	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		return 0, err
	}

	if _, _, err := validateWindowTimes(dto.StartTime, dto.EndTime); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateWindow(ctx, domain.WorkingWindow{
		MasterID:  masterID,
		Weekday:   dto.Weekday,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, masterID)
	return id, nil
}

func (s *ScheduleServiceImpl) UpdateWindow(ctx context.Context, id int64, dto domain.UpdateWorkingWindowDTO) error {
	window, err := s.repo.GetWindowByID(ctx, id)
	if err != nil {
		return err
	}

	if dto.StartTime != nil {
		window.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		window.EndTime = *dto.EndTime
	}

	if _, _, err := validateWindowTimes(window.StartTime, window.EndTime); err != nil {
		return err
	}

	if err := s.repo.UpdateWindow(ctx, *window); err != nil {
		return err
	}

	s.invalidate(ctx, window.MasterID)
	return nil
}

func (s *ScheduleServiceImpl) DeleteWindow(ctx context.Context, id int64) error {
	window, err := s.repo.GetWindowByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWindow(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, window.MasterID)
	return nil
}

func (s *ScheduleServiceImpl) ListWindows(ctx context.Context, masterID int64) ([]domain.WorkingWindow, error) {
	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		return nil, err
	}

	return s.repo.ListWindowsByMaster(ctx, masterID)
}

func (s *ScheduleServiceImpl) CreateBlackout(ctx context.Context, masterID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		return 0, err
	}

	if !dto.StartsAt.Before(dto.EndsAt) {
		return 0, fmt.Errorf("период %s - %s: %w",
			dto.StartsAt.Format(time.RFC3339), dto.EndsAt.Format(time.RFC3339), domain.ErrInvalidInterval)
	}

	id, err := s.repo.CreateBlackout(ctx, masterID, dto)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, masterID)
	return id, nil
}

func (s *ScheduleServiceImpl) GetBlackout(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	return s.repo.GetBlackoutByID(ctx, id)
}

func (s *ScheduleServiceImpl) DeleteBlackout(ctx context.Context, id int64) error {
	blackout, err := s.repo.GetBlackoutByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBlackout(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, blackout.MasterID)
	return nil
}

func (s *ScheduleServiceImpl) ListBlackouts(ctx context.Context, masterID int64, from, to time.Time) ([]domain.BlackoutPeriod, error) {
	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		return nil, err
	}

	return s.repo.ListBlackouts(ctx, masterID, from, to)
}

func (s *ScheduleServiceImpl) invalidate(ctx context.Context, masterID int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateMaster(ctx, masterID); err != nil {
		s.logger.Warn("ошибка инвалидации кеша расписания", zap.Int64("masterId", masterID), zap.Error(err))
	}
}

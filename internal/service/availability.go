package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"lokon/internal/cache"
	"lokon/internal/domain"
	"lokon/internal/repository"
)

type AvailabilityServiceImpl struct {
	scheduleRepo repository.ScheduleRepository
	bookingRepo  repository.BookingRepository
	masterRepo   repository.MasterRepository
	cache        *cache.AvailabilityCache
	logger       *zap.Logger
}

func NewAvailabilityService(scheduleRepo repository.ScheduleRepository, bookingRepo repository.BookingRepository, masterRepo repository.MasterRepository, availabilityCache *cache.AvailabilityCache, logger *zap.Logger) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		masterRepo:   masterRepo,
		cache:        availabilityCache,
		logger:       logger,
	}
}

// mergeIntervals сортирует интервалы и склеивает пересекающиеся и смежные.
func mergeIntervals(intervals []domain.Interval) []domain.Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sorted := make([]domain.Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []domain.Interval{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !next.Start.After(last.End) {
			if next.End.After(last.End) {
				last.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}

	return merged
}

// subtractIntervals вычитает занятые интервалы из базовых. Оба списка
// должны быть отсортированы и склеены. Интервалы нулевой длины в
// результат не попадают.
func subtractIntervals(base, busy []domain.Interval) []domain.Interval {
	result := make([]domain.Interval, 0, len(base))

	for _, b := range base {
		cursor := b.Start
		for _, occupied := range busy {
			if !occupied.Start.Before(b.End) {
				break
			}
			if !occupied.End.After(cursor) {
				continue
			}
			if occupied.Start.After(cursor) {
				result = append(result, domain.Interval{Start: cursor, End: occupied.Start})
			}
			if occupied.End.After(cursor) {
				cursor = occupied.End
			}
		}
		if cursor.Before(b.End) {
			result = append(result, domain.Interval{Start: cursor, End: b.End})
		}
	}

	return result
}

// expandWindows разворачивает еженедельные окна мастера в абсолютные
// интервалы внутри [from, to), обрезая по границам диапазона.
func expandWindows(windows []domain.WorkingWindow, from, to time.Time) ([]domain.Interval, error) {
	intervals := make([]domain.Interval, 0)

	byWeekday := make(map[int][]domain.WorkingWindow)
	for _, w := range windows {
		byWeekday[w.Weekday] = append(byWeekday[w.Weekday], w)
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for ; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, w := range byWeekday[int(day.Weekday())] {
			startMin, err := domain.ClockToMinutes(w.StartTime)
			if err != nil {
				return nil, err
			}
			endMin, err := domain.ClockToMinutes(w.EndTime)
			if err != nil {
				return nil, err
			}

			interval := domain.Interval{
				Start: day.Add(time.Duration(startMin) * time.Minute),
				End:   day.Add(time.Duration(endMin) * time.Minute),
			}

			if interval.Start.Before(from) {
				interval.Start = from
			}
			if interval.End.After(to) {
				interval.End = to
			}
			if interval.Start.Before(interval.End) {
				intervals = append(intervals, interval)
			}
		}
	}

	return intervals, nil
}

// FreeIntervals возвращает свободные интервалы мастера в [from, to):
// рабочие окна минус периоды недоступности минус активные записи.
// Интервалы короче minDuration отбрасываются.
func (s *AvailabilityServiceImpl) FreeIntervals(ctx context.Context, masterID int64, from, to time.Time, minDuration time.Duration) ([]domain.Interval, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("диапазон %s - %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), domain.ErrInvalidInterval)
	}

	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("free:%d:%d:%d", from.Unix(), to.Unix(), int64(minDuration.Seconds()))
	if s.cache != nil {
		var cached []domain.Interval
		if s.cache.Get(ctx, masterID, cacheKey, &cached) {
			return cached, nil
		}
	}

	free, err := s.computeFree(ctx, masterID, from, to)
	if err != nil {
		return nil, err
	}

	if minDuration > 0 {
		filtered := free[:0]
		for _, interval := range free {
			if interval.Duration() >= minDuration {
				filtered = append(filtered, interval)
			}
		}
		free = filtered
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, masterID, cacheKey, free); err != nil {
			s.logger.Warn("ошибка записи расписания в кеш", zap.Int64("masterId", masterID), zap.Error(err))
		}
	}

	return free, nil
}

func (s *AvailabilityServiceImpl) computeFree(ctx context.Context, masterID int64, from, to time.Time) ([]domain.Interval, error) {
	windows, err := s.scheduleRepo.ListWindowsByMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}

	working, err := expandWindows(windows, from, to)
	if err != nil {
		return nil, err
	}
	working = mergeIntervals(working)

	blackouts, err := s.scheduleRepo.ListBlackouts(ctx, masterID, from, to)
	if err != nil {
		return nil, err
	}

	busy, err := s.bookingRepo.ListBusyIntervals(ctx, masterID, from, to)
	if err != nil {
		return nil, err
	}

	for _, b := range blackouts {
		busy = append(busy, domain.Interval{Start: b.StartsAt, End: b.EndsAt})
	}
	busy = mergeIntervals(busy)

	return subtractIntervals(working, busy), nil
}

// Slots возвращает времена начала "HH:MM" на указанную дату (UTC,
// формат 2006-01-02), в которые помещается услуга заданной длительности.
// Сетка внутри свободного интервала идет с шагом, равным длительности
// услуги.
func (s *AvailabilityServiceImpl) Slots(ctx context.Context, masterID int64, date string, serviceDuration time.Duration) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("неверный формат даты %q, ожидается YYYY-MM-DD: %w", date, domain.ErrInvalidInterval)
	}

	free, err := s.FreeIntervals(ctx, masterID, day, day.AddDate(0, 0, 1), serviceDuration)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0)
	for _, interval := range free {
		for start := interval.Start; !start.Add(serviceDuration).After(interval.End); start = start.Add(serviceDuration) {
			slots = append(slots, start.Format("15:04"))
		}
	}

	return slots, nil
}

// FitsSchedule проверяет, что интервал целиком лежит в рабочих окнах
// мастера за вычетом периодов недоступности. Занятость другими записями
// здесь не учитывается, её гарантирует хранилище при вставке.
func (s *AvailabilityServiceImpl) FitsSchedule(ctx context.Context, masterID int64, interval domain.Interval) (bool, error) {
	if !interval.Start.Before(interval.End) {
		return false, fmt.Errorf("интервал %s - %s: %w",
			interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), domain.ErrInvalidInterval)
	}

	windows, err := s.scheduleRepo.ListWindowsByMaster(ctx, masterID)
	if err != nil {
		return false, err
	}

	working, err := expandWindows(windows, interval.Start, interval.End)
	if err != nil {
		return false, err
	}
	working = mergeIntervals(working)

	blackouts, err := s.scheduleRepo.ListBlackouts(ctx, masterID, interval.Start, interval.End)
	if err != nil {
		return false, err
	}

	closed := make([]domain.Interval, 0, len(blackouts))
	for _, b := range blackouts {
		closed = append(closed, domain.Interval{Start: b.StartsAt, End: b.EndsAt})
	}

	open := subtractIntervals(working, mergeIntervals(closed))
	for _, f := range open {
		if !f.Start.After(interval.Start) && !f.End.Before(interval.End) {
			return true, nil
		}
	}

	return false, nil
}

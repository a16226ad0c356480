package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"lokon/internal/domain"
)

// 2026-09-07, понедельник.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(base time.Time, hour, min int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func iv(base time.Time, fromHour, fromMin, toHour, toMin int) domain.Interval {
	return domain.Interval{Start: at(base, fromHour, fromMin), End: at(base, toHour, toMin)}
}

func TestMergeIntervals(t *testing.T) {
	merged := mergeIntervals([]domain.Interval{
		iv(monday, 14, 0, 16, 0),
		iv(monday, 9, 0, 11, 0),
		iv(monday, 10, 30, 12, 0),
		iv(monday, 12, 0, 13, 0),
	})

	want := []domain.Interval{
		iv(monday, 9, 0, 13, 0),
		iv(monday, 14, 0, 16, 0),
	}

	if len(merged) != len(want) {
		t.Fatalf("ожидалось %d интервалов, получено %d: %v", len(want), len(merged), merged)
	}

	for i := range want {
		if !merged[i].Start.Equal(want[i].Start) || !merged[i].End.Equal(want[i].End) {
			t.Errorf("интервал %d: ожидался %v, получен %v", i, want[i], merged[i])
		}
	}
}

func TestSubtractIntervals(t *testing.T) {
	base := []domain.Interval{iv(monday, 9, 0, 18, 0)}
	busy := []domain.Interval{
		iv(monday, 8, 0, 10, 0),
		iv(monday, 12, 0, 13, 0),
		iv(monday, 17, 30, 19, 0),
	}

	free := subtractIntervals(base, busy)

	want := []domain.Interval{
		iv(monday, 10, 0, 12, 0),
		iv(monday, 13, 0, 17, 30),
	}

	if len(free) != len(want) {
		t.Fatalf("ожидалось %d интервалов, получено %d: %v", len(want), len(free), free)
	}

	for i := range want {
		if !free[i].Start.Equal(want[i].Start) || !free[i].End.Equal(want[i].End) {
			t.Errorf("интервал %d: ожидался %v, получен %v", i, want[i], free[i])
		}
	}
}

func TestSubtractIntervalsFullCover(t *testing.T) {
	base := []domain.Interval{iv(monday, 9, 0, 12, 0)}
	busy := []domain.Interval{iv(monday, 8, 0, 13, 0)}

	free := subtractIntervals(base, busy)
	if len(free) != 0 {
		t.Fatalf("ожидался пустой результат, получено %v", free)
	}
}

func TestSubtractIntervalsTouchingNoZeroLength(t *testing.T) {
	// Смежная занятость не должна порождать интервалы нулевой длины.
	base := []domain.Interval{iv(monday, 9, 0, 12, 0)}
	busy := []domain.Interval{iv(monday, 9, 0, 10, 0), iv(monday, 11, 0, 12, 0)}

	free := subtractIntervals(base, busy)

	if len(free) != 1 {
		t.Fatalf("ожидался один интервал, получено %v", free)
	}
	if !free[0].Start.Equal(at(monday, 10, 0)) || !free[0].End.Equal(at(monday, 11, 0)) {
		t.Errorf("ожидался 10:00-11:00, получен %v", free[0])
	}
	for _, f := range free {
		if f.Duration() <= 0 {
			t.Errorf("интервал нулевой длины: %v", f)
		}
	}
}

func TestExpandWindowsClipsRange(t *testing.T) {
	windows := []domain.WorkingWindow{
		{MasterID: 1, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
	}

	from := at(monday, 10, 0)
	to := at(monday, 12, 0)

	intervals, err := expandWindows(windows, from, to)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(intervals) != 1 {
		t.Fatalf("ожидался один интервал, получено %v", intervals)
	}
	if !intervals[0].Start.Equal(from) || !intervals[0].End.Equal(to) {
		t.Errorf("ожидался %v-%v, получен %v", from, to, intervals[0])
	}
}

func newAvailabilityFixture(t *testing.T) (*AvailabilityServiceImpl, *fakeScheduleRepo, *fakeBookingRepo) {
	t.Helper()

	scheduleRepo := newFakeScheduleRepo()
	bookingRepo := newFakeBookingRepo()
	masterRepo := newFakeMasterRepo(&domain.Master{ID: 1, UserID: 100, IsActive: true})

	svc := NewAvailabilityService(scheduleRepo, bookingRepo, masterRepo, nil, zap.NewNop())
	return svc, scheduleRepo, bookingRepo
}

func TestFreeIntervals(t *testing.T) {
	svc, scheduleRepo, bookingRepo := newAvailabilityFixture(t)
	ctx := context.Background()

	scheduleRepo.addWindow(1, 1, "10:00", "18:00")

	if _, err := scheduleRepo.CreateBlackout(ctx, 1, domain.CreateBlackoutDTO{
		StartsAt: at(monday, 12, 0),
		EndsAt:   at(monday, 13, 0),
	}); err != nil {
		t.Fatalf("не удалось создать период недоступности: %v", err)
	}

	if _, err := bookingRepo.Create(ctx, domain.Booking{
		MasterID: 1,
		StartsAt: at(monday, 10, 0),
		EndsAt:   at(monday, 11, 0),
		Status:   domain.BookingStatusConfirmed,
	}); err != nil {
		t.Fatalf("не удалось создать запись: %v", err)
	}

	free, err := svc.FreeIntervals(ctx, 1, monday, monday.AddDate(0, 0, 1), 0)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	want := []domain.Interval{
		iv(monday, 11, 0, 12, 0),
		iv(monday, 13, 0, 18, 0),
	}

	if len(free) != len(want) {
		t.Fatalf("ожидалось %d интервалов, получено %d: %v", len(want), len(free), free)
	}

	for i := range want {
		if !free[i].Start.Equal(want[i].Start) || !free[i].End.Equal(want[i].End) {
			t.Errorf("интервал %d: ожидался %v, получен %v", i, want[i], free[i])
		}
	}
}

func TestFreeIntervalsMinDuration(t *testing.T) {
	svc, scheduleRepo, bookingRepo := newAvailabilityFixture(t)
	ctx := context.Background()

	scheduleRepo.addWindow(1, 1, "10:00", "18:00")

	if _, err := bookingRepo.Create(ctx, domain.Booking{
		MasterID: 1,
		StartsAt: at(monday, 11, 0),
		EndsAt:   at(monday, 16, 30),
		Status:   domain.BookingStatusPending,
	}); err != nil {
		t.Fatalf("не удалось создать запись: %v", err)
	}

	// Остаются 10:00-11:00 и 16:30-18:00, фильтр в 90 минут оставляет второй.
	free, err := svc.FreeIntervals(ctx, 1, monday, monday.AddDate(0, 0, 1), 90*time.Minute)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(free) != 1 {
		t.Fatalf("ожидался один интервал, получено %v", free)
	}
	if !free[0].Start.Equal(at(monday, 16, 30)) {
		t.Errorf("ожидалось начало 16:30, получено %v", free[0].Start)
	}
}

func TestFreeIntervalsInvalidRange(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)

	_, err := svc.FreeIntervals(context.Background(), 1, monday, monday, 0)
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("ожидалась ErrInvalidInterval, получено %v", err)
	}
}

func TestFreeIntervalsUnknownMaster(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)

	_, err := svc.FreeIntervals(context.Background(), 42, monday, monday.AddDate(0, 0, 1), 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestSlots(t *testing.T) {
	svc, scheduleRepo, bookingRepo := newAvailabilityFixture(t)
	ctx := context.Background()

	scheduleRepo.addWindow(1, 1, "10:00", "13:00")

	if _, err := bookingRepo.Create(ctx, domain.Booking{
		MasterID: 1,
		StartsAt: at(monday, 11, 0),
		EndsAt:   at(monday, 12, 0),
		Status:   domain.BookingStatusConfirmed,
	}); err != nil {
		t.Fatalf("не удалось создать запись: %v", err)
	}

	slots, err := svc.Slots(ctx, 1, "2026-09-07", time.Hour)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// 10:00-11:00 вмещает только 10:00; 12:00-13:00 только 12:00.
	want := []string{"10:00", "12:00"}
	if len(slots) != len(want) {
		t.Fatalf("ожидались слоты %v, получены %v", want, slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("слот %d: ожидался %s, получен %s", i, want[i], slots[i])
		}
	}
}

func TestSlotsStepEqualsDuration(t *testing.T) {
	svc, scheduleRepo, _ := newAvailabilityFixture(t)
	ctx := context.Background()

	scheduleRepo.addWindow(1, 1, "10:00", "12:30")

	slots, err := svc.Slots(ctx, 1, "2026-09-07", time.Hour)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Часовая услуга нарезает окно часовыми шагами: хвост 12:00-12:30
	// услугу не вмещает и промежуточных начал вроде 10:30 быть не должно.
	want := []string{"10:00", "11:00"}
	if len(slots) != len(want) {
		t.Fatalf("ожидались слоты %v, получены %v", want, slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("слот %d: ожидался %s, получен %s", i, want[i], slots[i])
		}
	}
}

func TestFitsSchedule(t *testing.T) {
	svc, scheduleRepo, _ := newAvailabilityFixture(t)
	ctx := context.Background()

	scheduleRepo.addWindow(1, 1, "09:00", "18:00")

	if _, err := scheduleRepo.CreateBlackout(ctx, 1, domain.CreateBlackoutDTO{
		StartsAt: at(monday, 14, 0),
		EndsAt:   at(monday, 15, 0),
	}); err != nil {
		t.Fatalf("не удалось создать период недоступности: %v", err)
	}

	cases := []struct {
		name     string
		interval domain.Interval
		want     bool
	}{
		{"внутри окна", iv(monday, 10, 0, 11, 0), true},
		{"впритык к границе окна", iv(monday, 17, 0, 18, 0), true},
		{"до начала окна", iv(monday, 8, 0, 9, 30), false},
		{"после конца окна", iv(monday, 17, 30, 18, 30), false},
		{"внутри периода недоступности", iv(monday, 14, 0, 14, 30), false},
		{"пересекает период недоступности", iv(monday, 13, 30, 14, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.FitsSchedule(ctx, 1, tc.interval)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if got != tc.want {
				t.Errorf("ожидалось %v, получено %v", tc.want, got)
			}
		})
	}
}

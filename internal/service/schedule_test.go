package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"lokon/internal/domain"
)

func newScheduleFixture(t *testing.T) (*ScheduleServiceImpl, *fakeScheduleRepo) {
	t.Helper()

	scheduleRepo := newFakeScheduleRepo()
	masterRepo := newFakeMasterRepo(&domain.Master{ID: 1, UserID: 100, IsActive: true})

	return NewScheduleService(scheduleRepo, masterRepo, nil, zap.NewNop()), scheduleRepo
}

func TestCreateWindow(t *testing.T) {
	svc, repo := newScheduleFixture(t)
	ctx := context.Background()

	id, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday:   1,
		StartTime: "09:00",
		EndTime:   "18:00",
	})
	if err != nil {
		t.Fatalf("не удалось создать рабочее окно: %v", err)
	}

	window, err := repo.GetWindowByID(ctx, id)
	if err != nil {
		t.Fatalf("окно не сохранилось: %v", err)
	}
	if window.MasterID != 1 || window.Weekday != 1 {
		t.Errorf("окно сохранено с неверными атрибутами: %+v", window)
	}
}

func TestCreateWindowInvalidTimes(t *testing.T) {
	svc, _ := newScheduleFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"начало позже конца", "18:00", "09:00"},
		{"нулевая длина", "09:00", "09:00"},
		{"мусор вместо времени", "девять утра", "18:00"},
		{"неверный формат", "9:00:00", "18:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
				Weekday:   1,
				StartTime: tc.start,
				EndTime:   tc.end,
			})
			if !errors.Is(err, domain.ErrInvalidInterval) {
				t.Fatalf("ожидалась ErrInvalidInterval, получено %v", err)
			}
		})
	}
}

func TestCreateWindowOverlap(t *testing.T) {
	svc, _ := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday: 1, StartTime: "09:00", EndTime: "13:00",
	}); err != nil {
		t.Fatalf("не удалось создать первое окно: %v", err)
	}

	_, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday: 1, StartTime: "12:00", EndTime: "18:00",
	})
	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("пересекающееся окно: ожидалась ErrSlotConflict, получено %v", err)
	}

	// Смежное окно и окно в другой день не конфликтуют.
	if _, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday: 1, StartTime: "13:00", EndTime: "18:00",
	}); err != nil {
		t.Errorf("смежное окно не должно конфликтовать: %v", err)
	}
	if _, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday: 2, StartTime: "09:00", EndTime: "13:00",
	}); err != nil {
		t.Errorf("окно в другой день не должно конфликтовать: %v", err)
	}
}

func TestCreateWindowUnknownMaster(t *testing.T) {
	svc, _ := newScheduleFixture(t)

	_, err := svc.CreateWindow(context.Background(), 99, domain.CreateWorkingWindowDTO{
		Weekday: 1, StartTime: "09:00", EndTime: "18:00",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestUpdateWindowInvalidTimes(t *testing.T) {
	svc, _ := newScheduleFixture(t)
	ctx := context.Background()

	id, err := svc.CreateWindow(ctx, 1, domain.CreateWorkingWindowDTO{
		Weekday: 1, StartTime: "09:00", EndTime: "18:00",
	})
	if err != nil {
		t.Fatalf("не удалось создать рабочее окно: %v", err)
	}

	badStart := "19:00"
	if err := svc.UpdateWindow(ctx, id, domain.UpdateWorkingWindowDTO{StartTime: &badStart}); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("ожидалась ErrInvalidInterval, получено %v", err)
	}

	newEnd := "20:00"
	if err := svc.UpdateWindow(ctx, id, domain.UpdateWorkingWindowDTO{EndTime: &newEnd}); err != nil {
		t.Fatalf("корректное обновление отклонено: %v", err)
	}
}

func TestCreateBlackout(t *testing.T) {
	svc, _ := newScheduleFixture(t)
	ctx := context.Background()

	start := time.Date(2027, 1, 4, 10, 0, 0, 0, time.UTC)

	if _, err := svc.CreateBlackout(ctx, 1, domain.CreateBlackoutDTO{
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
		Reason:   "отпуск",
	}); err != nil {
		t.Fatalf("не удалось создать период недоступности: %v", err)
	}

	// Конец не позже начала.
	_, err := svc.CreateBlackout(ctx, 1, domain.CreateBlackoutDTO{
		StartsAt: start,
		EndsAt:   start,
	})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("ожидалась ErrInvalidInterval, получено %v", err)
	}

	_, err = svc.CreateBlackout(ctx, 99, domain.CreateBlackoutDTO{
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("неизвестный мастер: ожидалась ErrNotFound, получено %v", err)
	}
}

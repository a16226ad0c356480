package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/domain"
)

// 2027-01-04, понедельник, заведомо в будущем относительно часов теста.
var bookingDay = time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC)

type bookingFixture struct {
	service      *BookingServiceImpl
	bookingRepo  *fakeBookingRepo
	scheduleRepo *fakeScheduleRepo
	notifyRepo   *fakeNotificationRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	bookingRepo := newFakeBookingRepo()
	scheduleRepo := newFakeScheduleRepo()
	notifyRepo := newFakeNotificationRepo()
	masterRepo := newFakeMasterRepo(&domain.Master{ID: 1, UserID: 100, IsActive: true})
	userRepo := newFakeUserRepo(&domain.User{ID: 10, FirstName: "Анна", Role: domain.UserRoleClient, IsActive: true})
	catalogRepo := newFakeCatalogRepo(&domain.Service{
		ID:              5,
		Name:            "Стрижка",
		DurationMinutes: 60,
		Price:           1500,
		IsActive:        true,
	})

	cfg := config.BookingConfig{ReminderLead: 24 * time.Hour, DispatchBatchSize: 50}
	logger := zap.NewNop()

	availability := NewAvailabilityService(scheduleRepo, bookingRepo, masterRepo, nil, logger)
	notification := NewNotificationService(notifyRepo, nil, cfg, logger)

	// Понедельник, 09:00-18:00.
	scheduleRepo.addWindow(1, 1, "09:00", "18:00")

	return &bookingFixture{
		service: NewBookingService(
			bookingRepo, masterRepo, userRepo, catalogRepo,
			availability, notification, nil, cfg, logger,
		),
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		notifyRepo:   notifyRepo,
	}
}

func (f *bookingFixture) createAt(t *testing.T, hour int) *domain.Booking {
	t.Helper()

	booking, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, hour, 0),
	})
	if err != nil {
		t.Fatalf("не удалось создать запись: %v", err)
	}
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking := f.createAt(t, 10)

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("ожидался статус pending, получен %s", booking.Status)
	}
	if !booking.EndsAt.Equal(at(bookingDay, 11, 0)) {
		t.Errorf("конец записи должен считаться из длительности услуги, получен %v", booking.EndsAt)
	}
	if booking.ConfirmationCode == "" {
		t.Error("код подтверждения не сгенерирован")
	}
	if booking.Price != 1500 {
		t.Errorf("цена должна фиксироваться из услуги, получено %v", booking.Price)
	}

	scheduled := f.notifyRepo.byBooking(booking.ID)
	if len(scheduled) != 2 {
		t.Fatalf("ожидались подтверждение и напоминание, получено %d уведомлений", len(scheduled))
	}
}

func TestCreateBookingConflict(t *testing.T) {
	f := newBookingFixture(t)

	f.createAt(t, 10)

	// Точно тот же интервал.
	_, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 10, 0),
	})
	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("ожидалась ErrSlotConflict, получено %v", err)
	}

	// Частичное пересечение.
	_, err = f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 10, 30),
	})
	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("ожидалась ErrSlotConflict при частичном пересечении, получено %v", err)
	}

	// Впритык после существующей записи конфликта нет.
	if _, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 11, 0),
	}); err != nil {
		t.Fatalf("смежная запись не должна конфликтовать: %v", err)
	}
}

func TestCreateBookingOutsideWorkingHours(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 8, 0),
	})
	if !errors.Is(err, domain.ErrOutsideWorkingHours) {
		t.Fatalf("ожидалась ErrOutsideWorkingHours, получено %v", err)
	}

	// Услуга не помещается до конца окна.
	_, err = f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 17, 30),
	})
	if !errors.Is(err, domain.ErrOutsideWorkingHours) {
		t.Fatalf("ожидалась ErrOutsideWorkingHours у границы окна, получено %v", err)
	}
}

func TestCreateBookingInBlackout(t *testing.T) {
	f := newBookingFixture(t)

	if _, err := f.scheduleRepo.CreateBlackout(context.Background(), 1, domain.CreateBlackoutDTO{
		StartsAt: at(bookingDay, 10, 0),
		EndsAt:   at(bookingDay, 12, 0),
	}); err != nil {
		t.Fatalf("не удалось создать период недоступности: %v", err)
	}

	_, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 10, 0),
	})
	if !errors.Is(err, domain.ErrOutsideWorkingHours) {
		t.Fatalf("ожидалась ErrOutsideWorkingHours, получено %v", err)
	}
}

func TestCreateBookingUnknownRefs(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, 99, domain.CreateBookingDTO{MasterID: 1, ServiceID: 5, StartsAt: at(bookingDay, 10, 0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("неизвестный клиент: ожидалась ErrNotFound, получено %v", err)
	}

	_, err = f.service.Create(ctx, 10, domain.CreateBookingDTO{MasterID: 77, ServiceID: 5, StartsAt: at(bookingDay, 10, 0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("неизвестный мастер: ожидалась ErrNotFound, получено %v", err)
	}

	_, err = f.service.Create(ctx, 10, domain.CreateBookingDTO{MasterID: 1, ServiceID: 77, StartsAt: at(bookingDay, 10, 0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("неизвестная услуга: ожидалась ErrNotFound, получено %v", err)
	}
}

func TestCancelFreesInterval(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking := f.createAt(t, 10)

	if err := f.service.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("не удалось отменить запись: %v", err)
	}

	// Интервал освободился.
	if _, err := f.service.Create(ctx, 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 5,
		StartsAt:  at(bookingDay, 10, 0),
	}); err != nil {
		t.Fatalf("интервал отмененной записи должен быть свободен: %v", err)
	}

	// Запланированные уведомления отменены.
	for _, n := range f.notifyRepo.byBooking(booking.ID) {
		if n.Status == domain.NotificationStatusPending && n.Type == domain.NotificationTypeReminder {
			t.Errorf("напоминание должно быть отменено, статус %s", n.Status)
		}
	}

	// Повторная отмена отклоняется.
	if err := f.service.Cancel(ctx, booking.ID); !errors.Is(err, domain.ErrBookingCancelled) {
		t.Fatalf("ожидалась ErrBookingCancelled, получено %v", err)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking := f.createAt(t, 10)

	// Завершить неподтвержденную нельзя.
	if err := f.service.Complete(ctx, booking.ID); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("завершение pending-записи: ожидалась ErrInvalidStatus, получено %v", err)
	}

	if err := f.service.Confirm(ctx, booking.ID); err != nil {
		t.Fatalf("не удалось подтвердить запись: %v", err)
	}

	// Повторное подтверждение отклоняется.
	if err := f.service.Confirm(ctx, booking.ID); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("повторное подтверждение: ожидалась ErrInvalidStatus, получено %v", err)
	}

	if err := f.service.Complete(ctx, booking.ID); err != nil {
		t.Fatalf("не удалось завершить запись: %v", err)
	}

	updated, err := f.service.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("не удалось получить запись: %v", err)
	}
	if updated.Status != domain.BookingStatusCompleted {
		t.Errorf("ожидался статус completed, получен %s", updated.Status)
	}
}

func TestConfirmCancelledBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking := f.createAt(t, 10)

	if err := f.service.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("не удалось отменить запись: %v", err)
	}

	if err := f.service.Confirm(ctx, booking.ID); !errors.Is(err, domain.ErrBookingCancelled) {
		t.Fatalf("ожидалась ErrBookingCancelled, получено %v", err)
	}
	if err := f.service.Complete(ctx, booking.ID); !errors.Is(err, domain.ErrBookingCancelled) {
		t.Fatalf("ожидалась ErrBookingCancelled, получено %v", err)
	}
}

func TestConcurrentBookingSameSlot(t *testing.T) {
	f := newBookingFixture(t)

	const goroutines = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
				MasterID:  1,
				ServiceID: 5,
				StartsAt:  at(bookingDay, 10, 0),
			})

			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}

			if !errors.Is(err, domain.ErrSlotConflict) {
				t.Errorf("неожиданная ошибка: %v", err)
			}
		}()
	}

	wg.Wait()

	if success != 1 {
		t.Fatalf("интервал должен достаться ровно одной записи, успешных %d", success)
	}
}

func TestMinimumNotice(t *testing.T) {
	f := newBookingFixture(t)

	f.service.catalogRepo = newFakeCatalogRepo(&domain.Service{
		ID:              6,
		Name:            "Окрашивание",
		DurationMinutes: 120,
		Price:           5000,
		IsActive:        true,
		MinimumNotice:   48,
	})

	// Сутки до начала не проходят порог в 48 часов.
	start := time.Now().UTC().AddDate(0, 0, 1)
	_, err := f.service.Create(context.Background(), 10, domain.CreateBookingDTO{
		MasterID:  1,
		ServiceID: 6,
		StartsAt:  start,
	})
	if !errors.Is(err, domain.ErrMinimumNotice) {
		t.Fatalf("ожидалась ErrMinimumNotice, получено %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lokon/internal/domain"
)

// Потокобезопасные репозитории в памяти. Create у записей повторяет
// поведение exclusion-ограничения в Postgres: пересечение с активной
// записью мастера отклоняется под общей блокировкой.

type fakeMasterRepo struct {
	mu      sync.Mutex
	masters map[int64]*domain.Master
}

func newFakeMasterRepo(masters ...*domain.Master) *fakeMasterRepo {
	repo := &fakeMasterRepo{masters: make(map[int64]*domain.Master)}
	for _, m := range masters {
		repo.masters[m.ID] = m
	}
	return repo
}

func (r *fakeMasterRepo) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.masters) + 1)
	r.masters[id] = &domain.Master{ID: id, UserID: userID, IsActive: true}
	return id, nil
}

func (r *fakeMasterRepo) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	master, ok := r.masters[id]
	if !ok {
		return nil, fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
	}
	return master, nil
}

func (r *fakeMasterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.masters {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, fmt.Errorf("мастер пользователя %d: %w", userID, domain.ErrNotFound)
}

func (r *fakeMasterRepo) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	return nil
}

func (r *fakeMasterRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeMasterRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, int, error) {
	return nil, 0, nil
}

func (r *fakeMasterRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("пользователь с id %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (r *fakeUserRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return nil, nil
}

type fakeCatalogRepo struct {
	services map[int64]*domain.Service
}

func newFakeCatalogRepo(services ...*domain.Service) *fakeCatalogRepo {
	repo := &fakeCatalogRepo{services: make(map[int64]*domain.Service)}
	for _, s := range services {
		repo.services[s.ID] = s
	}
	return repo
}

func (r *fakeCatalogRepo) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	return 0, nil
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("услуга с id %d: %w", id, domain.ErrNotFound)
	}
	return svc, nil
}

func (r *fakeCatalogRepo) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	return nil
}

func (r *fakeCatalogRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeCatalogRepo) List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, int, error) {
	return nil, 0, nil
}

func (r *fakeCatalogRepo) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	nextID    int64
	windows   map[int64]*domain.WorkingWindow
	blackouts map[int64]*domain.BlackoutPeriod
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		windows:   make(map[int64]*domain.WorkingWindow),
		blackouts: make(map[int64]*domain.BlackoutPeriod),
	}
}

func (r *fakeScheduleRepo) addWindow(masterID int64, weekday int, start, end string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.windows[r.nextID] = &domain.WorkingWindow{
		ID:        r.nextID,
		MasterID:  masterID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
}

func (r *fakeScheduleRepo) CreateWindow(ctx context.Context, window domain.WorkingWindow) (int64, error) {
	startMin, err := domain.ClockToMinutes(window.StartTime)
	if err != nil {
		return 0, err
	}
	endMin, err := domain.ClockToMinutes(window.EndTime)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.windows {
		if w.MasterID != window.MasterID || w.Weekday != window.Weekday {
			continue
		}
		existingStart, _ := domain.ClockToMinutes(w.StartTime)
		existingEnd, _ := domain.ClockToMinutes(w.EndTime)
		if startMin < existingEnd && existingStart < endMin {
			return 0, fmt.Errorf("рабочее окно пересекается с существующим: %w", domain.ErrSlotConflict)
		}
	}

	r.nextID++
	window.ID = r.nextID
	r.windows[window.ID] = &window
	return window.ID, nil
}

func (r *fakeScheduleRepo) GetWindowByID(ctx context.Context, id int64) (*domain.WorkingWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	window, ok := r.windows[id]
	if !ok {
		return nil, fmt.Errorf("рабочее окно с id %d: %w", id, domain.ErrNotFound)
	}
	copied := *window
	return &copied, nil
}

func (r *fakeScheduleRepo) UpdateWindow(ctx context.Context, window domain.WorkingWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[window.ID]; !ok {
		return fmt.Errorf("рабочее окно с id %d: %w", window.ID, domain.ErrNotFound)
	}
	r.windows[window.ID] = &window
	return nil
}

func (r *fakeScheduleRepo) DeleteWindow(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[id]; !ok {
		return fmt.Errorf("рабочее окно с id %d: %w", id, domain.ErrNotFound)
	}
	delete(r.windows, id)
	return nil
}

func (r *fakeScheduleRepo) ListWindowsByMaster(ctx context.Context, masterID int64) ([]domain.WorkingWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	windows := make([]domain.WorkingWindow, 0)
	for _, w := range r.windows {
		if w.MasterID == masterID {
			windows = append(windows, *w)
		}
	}
	return windows, nil
}

func (r *fakeScheduleRepo) CreateBlackout(ctx context.Context, masterID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.blackouts[r.nextID] = &domain.BlackoutPeriod{
		ID:       r.nextID,
		MasterID: masterID,
		StartsAt: dto.StartsAt,
		EndsAt:   dto.EndsAt,
		Reason:   dto.Reason,
	}
	return r.nextID, nil
}

func (r *fakeScheduleRepo) GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blackout, ok := r.blackouts[id]
	if !ok {
		return nil, fmt.Errorf("период недоступности с id %d: %w", id, domain.ErrNotFound)
	}
	return blackout, nil
}

func (r *fakeScheduleRepo) DeleteBlackout(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blackouts, id)
	return nil
}

func (r *fakeScheduleRepo) ListBlackouts(ctx context.Context, masterID int64, from, to time.Time) ([]domain.BlackoutPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blackouts := make([]domain.BlackoutPeriod, 0)
	for _, b := range r.blackouts {
		if b.MasterID == masterID && b.StartsAt.Before(to) && b.EndsAt.After(from) {
			blackouts = append(blackouts, *b)
		}
	}
	return blackouts, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking domain.Booking) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.MasterID != booking.MasterID || b.Status == domain.BookingStatusCancelled {
			continue
		}
		if booking.StartsAt.Before(b.EndsAt) && b.StartsAt.Before(booking.EndsAt) {
			return 0, fmt.Errorf("мастер занят: %w", domain.ErrSlotConflict)
		}
	}

	r.nextID++
	booking.ID = r.nextID
	r.bookings[booking.ID] = &booking
	return booking.ID, nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("запись с id %d: %w", id, domain.ErrNotFound)
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ConfirmationCode == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("запись с кодом %s: %w", code, domain.ErrNotFound)
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("запись с id %d: %w", id, domain.ErrNotFound)
	}
	booking.Status = status
	return nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) CountByFilter(ctx context.Context, filter domain.BookingFilter) (int, error) {
	return 0, nil
}

func (r *fakeBookingRepo) ListBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.Interval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	intervals := make([]domain.Interval, 0)
	for _, b := range r.bookings {
		if b.MasterID != masterID || b.Status == domain.BookingStatusCancelled {
			continue
		}
		if b.StartsAt.Before(to) && b.EndsAt.After(from) {
			intervals = append(intervals, domain.Interval{Start: b.StartsAt, End: b.EndsAt})
		}
	}
	return intervals, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications map[int64]*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[int64]*domain.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification domain.Notification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	notification.ID = r.nextID
	r.notifications[notification.ID] = &notification
	return notification.ID, nil
}

func (r *fakeNotificationRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := make([]domain.Notification, 0)
	for _, n := range r.notifications {
		if n.Status == domain.NotificationStatusPending && !n.ScheduledAt.After(now) {
			due = append(due, *n)
		}
	}
	return due, nil
}

func (r *fakeNotificationRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time, response string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		n.Status = domain.NotificationStatusSent
		n.SentAt = &sentAt
		n.Response = response
	}
	return nil
}

func (r *fakeNotificationRepo) MarkFailed(ctx context.Context, id int64, response string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		n.Status = domain.NotificationStatusFailed
		n.Response = response
	}
	return nil
}

func (r *fakeNotificationRepo) CancelPendingByBookingID(ctx context.Context, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.BookingID != nil && *n.BookingID == bookingID && n.Status == domain.NotificationStatusPending {
			n.Status = domain.NotificationStatusCancelled
		}
	}
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) byBooking(bookingID int64) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Notification, 0)
	for _, n := range r.notifications {
		if n.BookingID != nil && *n.BookingID == bookingID {
			result = append(result, *n)
		}
	}
	return result
}

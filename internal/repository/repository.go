package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lokon/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Auth         AuthRepository
	Master       MasterRepository
	Catalog      CatalogRepository
	Schedule     ScheduleRepository
	Booking      BookingRepository
	Notification NotificationRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Auth:         NewAuthRepository(db),
		Master:       NewMasterRepository(db),
		Catalog:      NewCatalogRepository(db),
		Schedule:     NewScheduleRepository(db),
		Booking:      NewBookingRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type MasterRepository interface {
	Create(ctx context.Context, userID int64, master domain.CreateMasterDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Master, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Master, error)
	Update(ctx context.Context, id int64, master domain.UpdateMasterDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, int, error)
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
}

type CatalogRepository interface {
	Create(ctx context.Context, service domain.CreateServiceDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, id int64, service domain.UpdateServiceDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, int, error)
	UpdateImage(ctx context.Context, id int64, imageURL string) error
}

type ScheduleRepository interface {
	CreateWindow(ctx context.Context, window domain.WorkingWindow) (int64, error)
	GetWindowByID(ctx context.Context, id int64) (*domain.WorkingWindow, error)
	UpdateWindow(ctx context.Context, window domain.WorkingWindow) error
	DeleteWindow(ctx context.Context, id int64) error
	ListWindowsByMaster(ctx context.Context, masterID int64) ([]domain.WorkingWindow, error)

	CreateBlackout(ctx context.Context, masterID int64, dto domain.CreateBlackoutDTO) (int64, error)
	GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, id int64) error
	ListBlackouts(ctx context.Context, masterID int64, from, to time.Time) ([]domain.BlackoutPeriod, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking domain.Booking) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	CountByFilter(ctx context.Context, filter domain.BookingFilter) (int, error)
	ListBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.Interval, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (int64, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time, response string) error
	MarkFailed(ctx context.Context, id int64, response string) error
	CancelPendingByBookingID(ctx context.Context, bookingID int64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
}

package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/cache"
	"lokon/internal/domain"
	"lokon/internal/repository"
	"lokon/internal/storage"
	"lokon/pkg/email"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Cache       *cache.AvailabilityCache
	EmailSender email.Sender
}

type Services struct {
	User         UserService
	Auth         AuthService
	Master       MasterService
	Catalog      CatalogService
	Schedule     ScheduleService
	Availability AvailabilityService
	Booking      BookingService
	Notification NotificationService
}

func NewServices(deps Deps) *Services {
	availability := NewAvailabilityService(deps.Repos.Schedule, deps.Repos.Booking, deps.Repos.Master, deps.Cache, deps.Logger)
	notification := NewNotificationService(deps.Repos.Notification, deps.EmailSender, deps.Config.Booking, deps.Logger)

	return &Services{
		User:         NewUserService(deps.Repos.User, deps.FileStorage, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Master:       NewMasterService(deps.Repos.Master, deps.Repos.User, deps.FileStorage, deps.Logger),
		Catalog:      NewCatalogService(deps.Repos.Catalog, deps.FileStorage, deps.Logger),
		Schedule:     NewScheduleService(deps.Repos.Schedule, deps.Repos.Master, deps.Cache, deps.Logger),
		Availability: availability,
		Booking:      NewBookingService(deps.Repos.Booking, deps.Repos.Master, deps.Repos.User, deps.Repos.Catalog, availability, notification, deps.Cache, deps.Config.Booking, deps.Logger),
		Notification: notification,
	}
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	UploadProfilePhoto(ctx context.Context, id int64, photo []byte, filename string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, tokenString string) (int64, domain.UserRole, error)
}

type MasterService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Master, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Master, error)
	Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, int, error)
	UploadProfilePhoto(ctx context.Context, masterID int64, photo []byte, filename string) error
}

type CatalogService interface {
	Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, int, error)
	UploadImage(ctx context.Context, serviceID int64, image []byte, filename string) error
}

type ScheduleService interface {
	CreateWindow(ctx context.Context, masterID int64, dto domain.CreateWorkingWindowDTO) (int64, error)
	UpdateWindow(ctx context.Context, id int64, dto domain.UpdateWorkingWindowDTO) error
	DeleteWindow(ctx context.Context, id int64) error
	ListWindows(ctx context.Context, masterID int64) ([]domain.WorkingWindow, error)

	CreateBlackout(ctx context.Context, masterID int64, dto domain.CreateBlackoutDTO) (int64, error)
	GetBlackout(ctx context.Context, id int64) (*domain.BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, id int64) error
	ListBlackouts(ctx context.Context, masterID int64, from, to time.Time) ([]domain.BlackoutPeriod, error)
}

type AvailabilityService interface {
	FreeIntervals(ctx context.Context, masterID int64, from, to time.Time, minDuration time.Duration) ([]domain.Interval, error)
	Slots(ctx context.Context, masterID int64, date string, serviceDuration time.Duration) ([]string, error)
	FitsSchedule(ctx context.Context, masterID int64, interval domain.Interval) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateBookingDTO) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
}

type NotificationService interface {
	ScheduleBookingNotifications(ctx context.Context, booking *domain.Booking) error
	NotifyCancellation(ctx context.Context, booking *domain.Booking) error
	CancelPending(ctx context.Context, bookingID int64) error
	DispatchDue(ctx context.Context) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
	StartDispatcher(ctx context.Context) *cron.Cron
}

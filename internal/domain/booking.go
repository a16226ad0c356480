package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID               int64         `json:"id"`
	MasterID         int64         `json:"master_id"`
	ClientID         int64         `json:"client_id"`
	ServiceID        int64         `json:"service_id"`
	StartsAt         time.Time     `json:"starts_at"`
	EndsAt           time.Time     `json:"ends_at"`
	Status           BookingStatus `json:"status"`
	ConfirmationCode string        `json:"confirmation_code"`
	Notes            string        `json:"notes,omitempty"`
	Price            float64       `json:"price"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	ClientName       string        `json:"client_name,omitempty"`
	MasterName       string        `json:"master_name,omitempty"`
	ServiceName      string        `json:"service_name,omitempty"`
}

type CreateBookingDTO struct {
	MasterID  int64     `json:"master_id" binding:"required"`
	ServiceID int64     `json:"service_id" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	Notes     string    `json:"notes" binding:"max=200"`
}

type BookingFilter struct {
	ClientID      *int64         `json:"client_id"`
	MasterID      *int64         `json:"master_id"`
	ServiceID     *int64         `json:"service_id"`
	Status        *BookingStatus `json:"status"`
	ExcludeStatus *BookingStatus `json:"exclude_status"`
	StartDate     *time.Time     `json:"start_date"`
	EndDate       *time.Time     `json:"end_date"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
}

// Interval описывает полуинтервал [Start, End) в абсолютном времени.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

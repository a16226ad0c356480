package domain

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeConfirmation NotificationType = "booking_confirmation"
	NotificationTypeReminder     NotificationType = "booking_reminder"
	NotificationTypeCancellation NotificationType = "booking_cancellation"
)

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	BookingID   *int64               `json:"booking_id,omitempty"`
	Type        NotificationType     `json:"type"`
	Status      NotificationStatus   `json:"status"`
	Priority    NotificationPriority `json:"priority"`
	Subject     string               `json:"subject"`
	Message     string               `json:"message"`
	ScheduledAt time.Time            `json:"scheduled_at"`
	SentAt      *time.Time           `json:"sent_at,omitempty"`
	Response    string               `json:"response,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	// Заполняется при выборке для отправки.
	RecipientEmail string `json:"-"`
	RecipientName  string `json:"-"`
}

package domain

import (
	"time"
)

type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	IsActive        bool      `json:"is_active"`
	ImageURL        string    `json:"image_url,omitempty"`
	MinimumNotice   int       `json:"minimum_notice_hours"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateServiceDTO struct {
	Name            string  `json:"name" binding:"required,max=150"`
	Description     string  `json:"description" binding:"required,max=2000"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=5,max=480"`
	Price           float64 `json:"price" binding:"required,min=0"`
	IsActive        *bool   `json:"is_active"`
	MinimumNotice   int     `json:"minimum_notice_hours" binding:"omitempty,min=0"`
}

type UpdateServiceDTO struct {
	Name            *string  `json:"name" binding:"omitempty,max=150"`
	Description     *string  `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active"`
	MinimumNotice   *int     `json:"minimum_notice_hours" binding:"omitempty,min=0"`
}

type ServiceFilter struct {
	IsActive   *bool   `json:"is_active"`
	SearchTerm *string `json:"search_term"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

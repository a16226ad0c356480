package domain

import (
	"errors"
)

var (
	ErrNotFound            = errors.New("запись не найдена")
	ErrInvalidInterval     = errors.New("начало интервала должно быть раньше его конца")
	ErrSlotConflict        = errors.New("выбранный интервал времени уже занят")
	ErrOutsideWorkingHours = errors.New("запрашиваемое время вне рабочих часов мастера")
	ErrBookingCancelled    = errors.New("запись отменена и не может быть изменена")
	ErrMinimumNotice       = errors.New("до начала записи осталось меньше минимального срока")
	ErrInvalidStatus       = errors.New("операция недопустима в текущем статусе записи")
)

package domain

import (
	"fmt"
	"time"
)

// WorkingWindow описывает повторяющийся еженедельный интервал, в который мастер
// доступен для записи. Weekday: 0 = воскресенье, как в time.Weekday.
type WorkingWindow struct {
	ID        int64     `json:"id"`
	MasterID  int64     `json:"master_id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateWorkingWindowDTO struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateWorkingWindowDTO struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// BlackoutPeriod описывает явное исключение из расписания (отпуск, перерыв),
// перекрывающее рабочие окна мастера.
type BlackoutPeriod struct {
	ID        int64     `json:"id"`
	MasterID  int64     `json:"master_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBlackoutDTO struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Reason   string    `json:"reason" binding:"max=200"`
}

// ClockToMinutes разбирает время вида "15:04" в минуты от полуночи.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("неверный формат времени %q, ожидается HH:MM: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToClock выполняет обратное преобразование для ответов API.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func parseIDQuery(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("некорректный ID")
	}
	return id, nil
}

// @Summary Свободные интервалы мастера
// @Description Рабочие окна минус периоды недоступности минус активные записи
// @Tags Доступность
// @Produce json
// @Param id path int true "ID мастера"
// @Param from query string false "Начало диапазона (RFC3339)"
// @Param to query string false "Конец диапазона (RFC3339)"
// @Param min_duration query int false "Минимальная длительность интервала в минутах"
// @Success 200 {array} domain.Interval
// @Failure 404 {object} errorResponseBody "Мастер не найден"
// @Failure 422 {object} errorResponseBody "Некорректный диапазон"
// @Router /masters/{id}/availability [get]
func (h *Handler) getAvailability(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var minDuration time.Duration
	if v := c.Query("min_duration"); v != "" {
		parsed, err := time.ParseDuration(v + "m")
		if err != nil || parsed < 0 {
			badRequestResponse(c, "некорректный параметр min_duration")
			return
		}
		minDuration = parsed
	}

	intervals, err := h.services.Availability.FreeIntervals(c.Request.Context(), masterID, from, to, minDuration)
	if err != nil {
		respondDomainError(c, err, "ошибка при расчете доступности")
		return
	}

	successResponse(c, http.StatusOK, intervals)
}

// @Summary Слоты для записи на дату
// @Description Времена начала, в которые помещается выбранная услуга
// @Tags Доступность
// @Produce json
// @Param id path int true "ID мастера"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Param service_id query int true "ID услуги"
// @Success 200 {array} string
// @Failure 404 {object} errorResponseBody "Мастер или услуга не найдены"
// @Failure 422 {object} errorResponseBody "Некорректная дата"
// @Router /masters/{id}/slots [get]
func (h *Handler) getSlots(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "не указана дата")
		return
	}

	serviceID, err := parseIDQuery(c, "service_id")
	if err != nil {
		badRequestResponse(c, "некорректный параметр service_id")
		return
	}

	service, err := h.services.Catalog.GetByID(c.Request.Context(), serviceID)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении услуги")
		return
	}

	slots, err := h.services.Availability.Slots(c.Request.Context(), masterID, date,
		time.Duration(service.DurationMinutes)*time.Minute)
	if err != nil {
		respondDomainError(c, err, "ошибка при расчете слотов")
		return
	}

	successResponse(c, http.StatusOK, slots)
}

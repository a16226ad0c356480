package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/internal/domain"
)

// @Summary Создание записи
// @Description Записывает клиента к мастеру. Интервал рассчитывается из длительности услуги
// @Tags Записи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateBookingDTO true "Мастер, услуга и время начала"
// @Success 201 {object} domain.Booking
// @Failure 404 {object} errorResponseBody "Мастер, услуга или клиент не найдены"
// @Failure 409 {object} errorResponseBody "Интервал уже занят"
// @Failure 422 {object} errorResponseBody "Время вне рабочих часов мастера"
// @Router /bookings [post]
func (h *Handler) createBooking(c *gin.Context) {
	clientID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	booking, err := h.services.Booking.Create(c.Request.Context(), clientID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании записи",
			zap.Int64("clientId", clientID),
			zap.Int64("masterId", input.MasterID),
			zap.Error(err))
		respondDomainError(c, err, err.Error())
		return
	}

	createdResponse(c, booking)
}

// @Summary Запись по ID
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Booking
// @Failure 404 {object} errorResponseBody "Не найдена"
// @Router /bookings/{id} [get]
func (h *Handler) getBookingByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, ok := h.loadBookingForUser(c, id)
	if !ok {
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// @Summary Запись по коду подтверждения
// @Tags Записи
// @Produce json
// @Param code path string true "Код подтверждения"
// @Success 200 {object} domain.Booking
// @Failure 404 {object} errorResponseBody "Не найдена"
// @Router /bookings/code/{code} [get]
func (h *Handler) getBookingByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		badRequestResponse(c, "не указан код подтверждения")
		return
	}

	booking, err := h.services.Booking.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении записи")
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// @Summary Список записей
// @Description Клиент видит свои записи, мастер записи к себе, администратор все
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "С даты (YYYY-MM-DD)"
// @Param date_to query string false "По дату (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Router /bookings [get]
func (h *Handler) getBookings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, offset := parsePagination(c)
	filter := domain.BookingFilter{
		Limit:  limit,
		Offset: offset,
	}

	switch role {
	case domain.UserRoleAdmin:
	case domain.UserRoleMaster:
		master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			respondDomainError(c, err, "профиль мастера не найден")
			return
		}
		filter.MasterID = &master.ID
	default:
		filter.ClientID = &userID
	}

	if v := c.Query("status"); v != "" {
		status := domain.BookingStatus(v)
		filter.Status = &status
	}

	if v := c.Query("date_from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err == nil {
			filter.StartDate = &parsed
		}
	}

	if v := c.Query("date_to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err == nil {
			end := parsed.AddDate(0, 0, 1)
			filter.EndDate = &end
		}
	}

	bookings, total, err := h.services.Booking.List(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении записей")
		return
	}

	if limit <= 0 {
		limit = 20
	}
	page := offset/limit + 1

	paginatedSuccessResponse(c, bookings, total, page, limit)
}

// @Summary Подтверждение записи
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType
// @Failure 409 {object} errorResponseBody "Запись отменена или уже подтверждена"
// @Router /bookings/{id}/confirm [post]
func (h *Handler) confirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.loadBookingForUser(c, id); !ok {
		return
	}

	if err := h.services.Booking.Confirm(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись подтверждена")
}

// @Summary Завершение записи
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType
// @Failure 409 {object} errorResponseBody "Запись отменена или не подтверждена"
// @Router /bookings/{id}/complete [post]
func (h *Handler) completeBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.loadBookingForUser(c, id); !ok {
		return
	}

	if err := h.services.Booking.Complete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись завершена")
}

// @Summary Отмена записи
// @Description Освобождает интервал и отменяет запланированные напоминания
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType
// @Failure 409 {object} errorResponseBody "Запись уже отменена"
// @Router /bookings/{id} [delete]
func (h *Handler) cancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.loadBookingForUser(c, id); !ok {
		return
	}

	if err := h.services.Booking.Cancel(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись отменена")
}

// loadBookingForUser возвращает запись, если она принадлежит текущему
// пользователю как клиенту или мастеру. Администратору доступны все.
func (h *Handler) loadBookingForUser(c *gin.Context, id int64) (*domain.Booking, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	booking, err := h.services.Booking.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении записи")
		return nil, false
	}

	if role == domain.UserRoleAdmin || booking.ClientID == userID {
		return booking, true
	}

	if role == domain.UserRoleMaster {
		master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
		if err == nil && master.ID == booking.MasterID {
			return booking, true
		}
	}

	forbiddenResponse(c)
	return nil, false
}

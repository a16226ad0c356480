package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/internal/domain"
)

// @Summary Рабочие окна мастера
// @Description Еженедельное расписание: день недели и границы окна
// @Tags Расписание
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {array} domain.WorkingWindow
// @Failure 404 {object} errorResponseBody "Мастер не найден"
// @Router /masters/{id}/working-windows [get]
func (h *Handler) getWorkingWindows(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	windows, err := h.services.Schedule.ListWindows(c.Request.Context(), masterID)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении рабочих окон")
		return
	}

	successResponse(c, http.StatusOK, windows)
}

// @Summary Добавление рабочего окна
// @Tags Расписание
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.CreateWorkingWindowDTO true "День недели и границы окна"
// @Success 201 {object} successResponseBody "ID созданного окна"
// @Failure 409 {object} errorResponseBody "Окно пересекается с существующим"
// @Failure 422 {object} errorResponseBody "Некорректные границы окна"
// @Router /masters/{id}/working-windows [post]
func (h *Handler) createWorkingWindow(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageMaster(c, masterID) {
		return
	}

	var input domain.CreateWorkingWindowDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Schedule.CreateWindow(c.Request.Context(), masterID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании рабочего окна", zap.Int64("masterId", masterID), zap.Error(err))
		respondDomainError(c, err, "ошибка при создании рабочего окна")
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Изменение рабочего окна
// @Tags Расписание
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID окна"
// @Param input body domain.UpdateWorkingWindowDTO true "Новые границы"
// @Success 200 {object} messageResponseType
// @Failure 409 {object} errorResponseBody "Окно пересекается с существующим"
// @Failure 422 {object} errorResponseBody "Некорректные границы окна"
// @Router /working-windows/{id} [put]
func (h *Handler) updateWorkingWindow(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageWindow(c, id) {
		return
	}

	var input domain.UpdateWorkingWindowDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Schedule.UpdateWindow(c.Request.Context(), id, input); err != nil {
		respondDomainError(c, err, "ошибка при обновлении рабочего окна")
		return
	}

	messageResponse(c, http.StatusOK, "рабочее окно обновлено")
}

// @Summary Удаление рабочего окна
// @Tags Расписание
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID окна"
// @Success 204 "Окно удалено"
// @Failure 404 {object} errorResponseBody "Не найдено"
// @Router /working-windows/{id} [delete]
func (h *Handler) deleteWorkingWindow(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageWindow(c, id) {
		return
	}

	if err := h.services.Schedule.DeleteWindow(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "ошибка при удалении рабочего окна")
		return
	}

	noContentResponse(c)
}

// @Summary Периоды недоступности мастера
// @Tags Расписание
// @Produce json
// @Param id path int true "ID мастера"
// @Param from query string false "Начало диапазона (RFC3339)"
// @Param to query string false "Конец диапазона (RFC3339)"
// @Success 200 {array} domain.BlackoutPeriod
// @Router /masters/{id}/blackouts [get]
func (h *Handler) getBlackouts(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	blackouts, err := h.services.Schedule.ListBlackouts(c.Request.Context(), masterID, from, to)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении периодов недоступности")
		return
	}

	successResponse(c, http.StatusOK, blackouts)
}

// @Summary Добавление периода недоступности
// @Tags Расписание
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.CreateBlackoutDTO true "Границы периода и причина"
// @Success 201 {object} successResponseBody "ID созданного периода"
// @Failure 422 {object} errorResponseBody "Некорректные границы периода"
// @Router /masters/{id}/blackouts [post]
func (h *Handler) createBlackout(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageMaster(c, masterID) {
		return
	}

	var input domain.CreateBlackoutDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Schedule.CreateBlackout(c.Request.Context(), masterID, input)
	if err != nil {
		respondDomainError(c, err, "ошибка при создании периода недоступности")
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Удаление периода недоступности
// @Tags Расписание
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID периода"
// @Success 204 "Период удален"
// @Failure 404 {object} errorResponseBody "Не найден"
// @Router /blackouts/{id} [delete]
func (h *Handler) deleteBlackout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	blackout, err := h.services.Schedule.GetBlackout(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении периода недоступности")
		return
	}

	if !h.canManageMaster(c, blackout.MasterID) {
		return
	}

	if err := h.services.Schedule.DeleteBlackout(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "ошибка при удалении периода недоступности")
		return
	}

	noContentResponse(c)
}

func (h *Handler) canManageWindow(c *gin.Context, windowID int64) bool {
	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	if role == domain.UserRoleAdmin {
		return true
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		forbiddenResponse(c)
		return false
	}

	windows, err := h.services.Schedule.ListWindows(c.Request.Context(), master.ID)
	if err != nil {
		respondDomainError(c, err, "ошибка при проверке доступа")
		return false
	}

	for _, w := range windows {
		if w.ID == windowID {
			return true
		}
	}

	forbiddenResponse(c)
	return false
}

func parseTimeRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now
	to := now.AddDate(0, 0, 14)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRequestResponse(c, "некорректный параметр from, ожидается RFC3339")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}

	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRequestResponse(c, "некорректный параметр to, ожидается RFC3339")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	return from, to, true
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/internal/domain"
)

// @Summary Каталог услуг
// @Tags Услуги
// @Produce json
// @Param is_active query bool false "Фильтр по активности"
// @Param search query string false "Поиск по названию и описанию"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Router /services [get]
func (h *Handler) getServices(c *gin.Context) {
	limit, offset := parsePagination(c)

	filter := domain.ServiceFilter{
		Limit:  limit,
		Offset: offset,
	}

	if v := c.Query("is_active"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
	}

	if v := c.Query("search"); v != "" {
		filter.SearchTerm = &v
	}

	services, total, err := h.services.Catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении услуг")
		return
	}

	if limit <= 0 {
		limit = 20
	}
	page := offset/limit + 1

	paginatedSuccessResponse(c, services, total, page, limit)
}

// @Summary Услуга по ID
// @Tags Услуги
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} domain.Service
// @Failure 404 {object} errorResponseBody "Не найдена"
// @Router /services/{id} [get]
func (h *Handler) getServiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := h.services.Catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении услуги")
		return
	}

	successResponse(c, http.StatusOK, service)
}

// @Summary Создание услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateServiceDTO true "Данные услуги"
// @Success 201 {object} successResponseBody "ID созданной услуги"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /services [post]
func (h *Handler) createService(c *gin.Context) {
	var input domain.CreateServiceDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Catalog.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("ошибка при создании услуги", zap.Error(err))
		respondDomainError(c, err, "ошибка при создании услуги")
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновление услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID услуги"
// @Param input body domain.UpdateServiceDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody "Не найдена"
// @Router /services/{id} [put]
func (h *Handler) updateService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateServiceDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Catalog.Update(c.Request.Context(), id, input); err != nil {
		respondDomainError(c, err, "ошибка при обновлении услуги")
		return
	}

	messageResponse(c, http.StatusOK, "услуга обновлена")
}

// @Summary Снятие услуги с публикации
// @Tags Услуги
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID услуги"
// @Success 204 "Услуга деактивирована"
// @Failure 404 {object} errorResponseBody "Не найдена"
// @Router /services/{id} [delete]
func (h *Handler) deleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "ошибка при удалении услуги")
		return
	}

	noContentResponse(c)
}

// @Summary Загрузка изображения услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID услуги"
// @Param image formData file true "Изображение"
// @Success 200 {object} messageResponseType
// @Router /services/{id}/image [post]
func (h *Handler) uploadServiceImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, ok := readUploadedFile(c, "image")
	if !ok {
		return
	}

	if err := h.services.Catalog.UploadImage(c.Request.Context(), id, data, filename); err != nil {
		respondDomainError(c, err, "ошибка при загрузке изображения")
		return
	}

	messageResponse(c, http.StatusOK, "изображение обновлено")
}

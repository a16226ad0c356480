package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/internal/domain"
)

// @Summary Список мастеров
// @Tags Мастера
// @Produce json
// @Param only_active query bool false "Только активные"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Router /masters [get]
func (h *Handler) getMasters(c *gin.Context) {
	onlyActive := c.DefaultQuery("only_active", "true") == "true"
	limit, offset := parsePagination(c)

	masters, total, err := h.services.Master.List(c.Request.Context(), onlyActive, limit, offset)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении мастеров")
		return
	}

	if limit <= 0 {
		limit = 20
	}
	page := offset/limit + 1

	paginatedSuccessResponse(c, masters, total, page, limit)
}

// @Summary Мастер по ID
// @Tags Мастера
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {object} domain.Master
// @Failure 404 {object} errorResponseBody "Не найден"
// @Router /masters/{id} [get]
func (h *Handler) getMasterByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	master, err := h.services.Master.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении мастера")
		return
	}

	successResponse(c, http.StatusOK, master)
}

// @Summary Профиль текущего мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.Master
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /masters/me [get]
func (h *Handler) getMyMasterProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении профиля мастера")
		return
	}

	successResponse(c, http.StatusOK, master)
}

// @Summary Создание профиля мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateMasterDTO true "Данные профиля"
// @Success 201 {object} successResponseBody "ID созданного профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /masters [post]
func (h *Handler) createMaster(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateMasterDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Master.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Error("ошибка при создании профиля мастера", zap.Int64("userId", userID), zap.Error(err))
		respondDomainError(c, err, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновление профиля мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.UpdateMasterDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /masters/{id} [put]
func (h *Handler) updateMaster(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageMaster(c, id) {
		return
	}

	var input domain.UpdateMasterDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Master.Update(c.Request.Context(), id, input); err != nil {
		respondDomainError(c, err, "ошибка при обновлении профиля мастера")
		return
	}

	messageResponse(c, http.StatusOK, "профиль мастера обновлен")
}

// @Summary Загрузка фото мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID мастера"
// @Param photo formData file true "Изображение"
// @Success 200 {object} messageResponseType
// @Router /masters/{id}/photo [post]
func (h *Handler) uploadMasterPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.canManageMaster(c, id) {
		return
	}

	data, filename, ok := readUploadedFile(c, "photo")
	if !ok {
		return
	}

	if err := h.services.Master.UploadProfilePhoto(c.Request.Context(), id, data, filename); err != nil {
		respondDomainError(c, err, "ошибка при загрузке фото")
		return
	}

	messageResponse(c, http.StatusOK, "фото обновлено")
}

// canManageMaster пропускает администратора и владельца профиля.
func (h *Handler) canManageMaster(c *gin.Context, masterID int64) bool {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	if role == domain.UserRoleAdmin {
		return true
	}

	master, err := h.services.Master.GetByID(c.Request.Context(), masterID)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении мастера")
		return false
	}

	if master.UserID != userID {
		forbiddenResponse(c)
		return false
	}

	return true
}

package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/internal/domain"
)

// @Summary Текущий пользователь
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении пользователя")
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Обновление профиля
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.UpdateUserDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /users/me [put]
func (h *Handler) updateCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.UpdateUserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	// Деактивация аккаунта доступна только администратору.
	input.IsActive = nil

	if err := h.services.User.Update(c.Request.Context(), userID, input); err != nil {
		respondDomainError(c, err, "ошибка при обновлении пользователя")
		return
	}

	messageResponse(c, http.StatusOK, "профиль обновлен")
}

// @Summary Смена пароля
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.PasswordUpdateDTO true "Старый и новый пароли"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Неверный текущий пароль"
// @Router /users/me/password [put]
func (h *Handler) updatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.UpdatePassword(c.Request.Context(), userID, input); err != nil {
		h.logger.Warn("ошибка при смене пароля", zap.Int64("userId", userID), zap.Error(err))
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "пароль обновлен")
}

// @Summary Загрузка фото профиля
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Изображение"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Некорректный файл"
// @Router /users/me/photo [post]
func (h *Handler) uploadUserPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	data, filename, ok := readUploadedFile(c, "photo")
	if !ok {
		return
	}

	if err := h.services.User.UploadProfilePhoto(c.Request.Context(), userID, data, filename); err != nil {
		respondDomainError(c, err, "ошибка при загрузке фото")
		return
	}

	messageResponse(c, http.StatusOK, "фото обновлено")
}

// @Summary Уведомления пользователя
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.Notification
// @Router /users/me/notifications [get]
func (h *Handler) getMyNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, offset := parsePagination(c)

	notifications, err := h.services.Notification.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении уведомлений")
		return
	}

	successResponse(c, http.StatusOK, notifications)
}

// @Summary Список пользователей
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.User
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /users [get]
func (h *Handler) getUsers(c *gin.Context) {
	limit, offset := parsePagination(c)

	users, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении пользователей")
		return
	}

	successResponse(c, http.StatusOK, users)
}

// @Summary Пользователь по ID
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} domain.User
// @Failure 404 {object} errorResponseBody "Не найден"
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "ошибка при получении пользователя")
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Деактивация пользователя
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 204 "Пользователь деактивирован"
// @Failure 404 {object} errorResponseBody "Не найден"
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "ошибка при удалении пользователя")
		return
	}

	noContentResponse(c)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "некорректный ID")
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		limit = 20
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}

func readUploadedFile(c *gin.Context, field string) ([]byte, string, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequestResponse(c, "ошибка чтения файла")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequestResponse(c, "ошибка чтения файла")
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}

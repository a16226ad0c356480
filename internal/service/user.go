package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lokon/internal/domain"
	"lokon/internal/repository"
	"lokon/internal/storage"
	"lokon/pkg/auth"
	"lokon/pkg/validator"
)

type UserServiceImpl struct {
	repo        repository.UserRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewUserService(repo repository.UserRepository, fileStorage storage.FileStorage, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	if dto.Phone != nil {
		formatted := validator.FormatPhone(*dto.Phone)
		dto.Phone = &formatted
	}

	return s.repo.Update(ctx, id, dto)
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		return errors.New("неверный текущий пароль")
	}

	hashedPassword, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return errors.New("ошибка при обновлении пароля")
	}

	return s.repo.UpdatePassword(ctx, id, hashedPassword)
}

func (s *UserServiceImpl) UploadProfilePhoto(ctx context.Context, id int64, photo []byte, filename string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.fileStorage == nil {
		return errors.New("файловое хранилище не настроено")
	}

	url, err := s.fileStorage.UploadImage(ctx, photo, filename, storage.FolderMasters)
	if err != nil {
		s.logger.Error("ошибка загрузки фото профиля", zap.Int64("userId", id), zap.Error(err))
		return errors.New("ошибка загрузки фото")
	}

	if user.ProfilePhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, user.ProfilePhotoURL); err != nil {
			s.logger.Warn("ошибка удаления старого фото", zap.Error(err))
		}
	}

	return s.repo.UpdateProfilePhoto(ctx, id, url)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, limit, offset)
}

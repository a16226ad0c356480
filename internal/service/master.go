package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lokon/internal/domain"
	"lokon/internal/repository"
	"lokon/internal/storage"
)

type MasterServiceImpl struct {
	repo        repository.MasterRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewMasterService(repo repository.MasterRepository, userRepo repository.UserRepository, fileStorage storage.FileStorage, logger *zap.Logger) *MasterServiceImpl {
	return &MasterServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *MasterServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if user.Role != domain.UserRoleMaster {
		return 0, errors.New("профиль мастера доступен только пользователям с ролью master")
	}

	if existing, err := s.repo.GetByUserID(ctx, userID); err == nil && existing != nil {
		return 0, errors.New("профиль мастера уже существует")
	}

	return s.repo.Create(ctx, userID, dto)
}

func (s *MasterServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MasterServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *MasterServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, dto)
}

func (s *MasterServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *MasterServiceImpl) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, onlyActive, limit, offset)
}

func (s *MasterServiceImpl) UploadProfilePhoto(ctx context.Context, masterID int64, photo []byte, filename string) error {
	master, err := s.repo.GetByID(ctx, masterID)
	if err != nil {
		return err
	}

	if s.fileStorage == nil {
		return errors.New("файловое хранилище не настроено")
	}

	url, err := s.fileStorage.UploadImage(ctx, photo, filename, storage.FolderMasters)
	if err != nil {
		s.logger.Error("ошибка загрузки фото мастера", zap.Int64("masterId", masterID), zap.Error(err))
		return errors.New("ошибка загрузки фото")
	}

	if master.ProfilePhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, master.ProfilePhotoURL); err != nil {
			s.logger.Warn("ошибка удаления старого фото", zap.Error(err))
		}
	}

	return s.repo.UpdateProfilePhoto(ctx, masterID, url)
}

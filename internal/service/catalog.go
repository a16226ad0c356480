package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lokon/internal/domain"
	"lokon/internal/repository"
	"lokon/internal/storage"
)

type CatalogServiceImpl struct {
	repo        repository.CatalogRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewCatalogService(repo repository.CatalogRepository, fileStorage storage.FileStorage, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *CatalogServiceImpl) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	return s.repo.Create(ctx, dto)
}

func (s *CatalogServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, dto)
}

func (s *CatalogServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *CatalogServiceImpl) List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, filter)
}

func (s *CatalogServiceImpl) UploadImage(ctx context.Context, serviceID int64, image []byte, filename string) error {
	svc, err := s.repo.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}

	if s.fileStorage == nil {
		return errors.New("файловое хранилище не настроено")
	}

	url, err := s.fileStorage.UploadImage(ctx, image, filename, storage.FolderServices)
	if err != nil {
		s.logger.Error("ошибка загрузки изображения услуги", zap.Int64("serviceId", serviceID), zap.Error(err))
		return errors.New("ошибка загрузки изображения")
	}

	if svc.ImageURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, svc.ImageURL); err != nil {
			s.logger.Warn("ошибка удаления старого изображения", zap.Error(err))
		}
	}

	return s.repo.UpdateImage(ctx, serviceID, url)
}

package storage

import (
	"context"
)

// Папки бакета по типу изображений.
const (
	FolderMasters  = "masters"
	FolderServices = "services"
)

type FileStorage interface {
	UploadImage(ctx context.Context, data []byte, filename, folder string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error
}

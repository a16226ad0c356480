package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lokon/internal/domain"
)

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{
		db: db,
	}
}

const serviceColumns = "id, name, description, duration_minutes, price, is_active, image_url, minimum_notice_hours, created_at, updated_at"

func scanService(row pgx.Row) (*domain.Service, error) {
	var service domain.Service
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
		&service.ImageURL,
		&service.MinimumNotice,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *CatalogRepo) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	var id int64
	query := `
		INSERT INTO services (name, description, duration_minutes, price, is_active, image_url, minimum_notice_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', $6, $7, $7)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		dto.Name,
		dto.Description,
		dto.DurationMinutes,
		dto.Price,
		isActive,
		dto.MinimumNotice,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания услуги: %w", err)
	}

	return id, nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	query := fmt.Sprintf("SELECT %s FROM services WHERE id = $1", serviceColumns)

	service, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("услуга с id %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения услуги: %w", err)
	}

	return service, nil
}

func (r *CatalogRepo) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
		argCount++
	}

	if dto.DurationMinutes != nil {
		updateFields = append(updateFields, fmt.Sprintf("duration_minutes = $%d", argCount))
		args = append(args, *dto.DurationMinutes)
		argCount++
	}

	if dto.Price != nil {
		updateFields = append(updateFields, fmt.Sprintf("price = $%d", argCount))
		args = append(args, *dto.Price)
		argCount++
	}

	if dto.IsActive != nil {
		updateFields = append(updateFields, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *dto.IsActive)
		argCount++
	}

	if dto.MinimumNotice != nil {
		updateFields = append(updateFields, fmt.Sprintf("minimum_notice_hours = $%d", argCount))
		args = append(args, *dto.MinimumNotice)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE services SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления услуги: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("услуга с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *CatalogRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE services SET is_active = false, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка деактивации услуги: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("услуга с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *CatalogRepo) List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, int, error) {
	countQuery := `SELECT COUNT(*) FROM services WHERE 1=1`
	selectQuery := fmt.Sprintf("SELECT %s FROM services WHERE 1=1", serviceColumns)

	var conditions string
	var args []interface{}
	argCount := 1

	if filter.IsActive != nil {
		conditions += fmt.Sprintf(" AND is_active = $%d", argCount)
		args = append(args, *filter.IsActive)
		argCount++
	}

	if filter.SearchTerm != nil {
		conditions += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+*filter.SearchTerm+"%")
		argCount++
	}

	countQuery += conditions
	selectQuery += conditions + fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argCount, argCount+1)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета услуг: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка услуг: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки услуги: %w", err)
		}
		services = append(services, *service)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return services, total, nil
}

func (r *CatalogRepo) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	query := `UPDATE services SET image_url = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, imageURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления изображения услуги: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("услуга с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

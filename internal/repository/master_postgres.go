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

type MasterRepo struct {
	db *pgxpool.Pool
}

func NewMasterRepository(db *pgxpool.Pool) *MasterRepo {
	return &MasterRepo{
		db: db,
	}
}

func (r *MasterRepo) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	var id int64
	query := `
		INSERT INTO masters (user_id, description, experience_years, profile_photo_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, '', true, $4, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, userID, dto.Description, dto.ExperienceYears, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания профиля мастера: %w", err)
	}

	return id, nil
}

const masterSelect = `
	SELECT m.id, m.user_id, m.description, m.experience_years, m.profile_photo_url, m.is_active, m.created_at, m.updated_at,
	       u.id, u.first_name, u.last_name, u.email, u.phone, u.role, u.is_active, u.created_at, u.updated_at
	FROM masters m
	JOIN users u ON m.user_id = u.id
`

func scanMaster(row pgx.Row) (*domain.Master, error) {
	var master domain.Master
	err := row.Scan(
		&master.ID,
		&master.UserID,
		&master.Description,
		&master.ExperienceYears,
		&master.ProfilePhotoURL,
		&master.IsActive,
		&master.CreatedAt,
		&master.UpdatedAt,
		&master.User.ID,
		&master.User.FirstName,
		&master.User.LastName,
		&master.User.Email,
		&master.User.Phone,
		&master.User.Role,
		&master.User.IsActive,
		&master.User.CreatedAt,
		&master.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &master, nil
}

func (r *MasterRepo) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	query := masterSelect + " WHERE m.id = $1"

	master, err := scanMaster(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения мастера: %w", err)
	}

	return master, nil
}

func (r *MasterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	query := masterSelect + " WHERE m.user_id = $1"

	master, err := scanMaster(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("профиль мастера пользователя %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения мастера: %w", err)
	}

	return master, nil
}

func (r *MasterRepo) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
		argCount++
	}

	if dto.ExperienceYears != nil {
		updateFields = append(updateFields, fmt.Sprintf("experience_years = $%d", argCount))
		args = append(args, *dto.ExperienceYears)
		argCount++
	}

	if dto.IsActive != nil {
		updateFields = append(updateFields, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *dto.IsActive)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE masters SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля мастера: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *MasterRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE masters SET is_active = false, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка деактивации мастера: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *MasterRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, int, error) {
	countQuery := `SELECT COUNT(*) FROM masters m WHERE 1=1`
	selectQuery := masterSelect + " WHERE 1=1"

	var conditions string
	if onlyActive {
		conditions = " AND m.is_active = true"
	}

	countQuery += conditions
	selectQuery += conditions + " ORDER BY m.id LIMIT $1 OFFSET $2"

	var total int
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета мастеров: %w", err)
	}

	rows, err := r.db.Query(ctx, selectQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка мастеров: %w", err)
	}
	defer rows.Close()

	masters := make([]domain.Master, 0)
	for rows.Next() {
		master, err := scanMaster(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки мастера: %w", err)
		}
		masters = append(masters, *master)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return masters, total, nil
}

func (r *MasterRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `UPDATE masters SET profile_photo_url = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото мастера: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/template"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const templateColumns = `uuid,
				user_uuid,
				name,
				description,
				blueprint,
				is_public,
				usage_count,
				created_at,
				updated_at`

func (s *Storage) CreateTemplate(ctx context.Context, tmpl *template.Template) error {
	start := time.Now()

	query := `INSERT INTO templates
				(uuid, user_uuid, name, description, blueprint, is_public, usage_count, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		tmpl.UUID,
		tmpl.UserUUID,
		tmpl.Name,
		tmpl.Description,
		tmpl.Blueprint,
		tmpl.IsPublic,
		tmpl.UsageCount,
		tmpl.CreatedAt,
	).Scan(&tmpl.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить шаблон", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление шаблона: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) UpdateTemplate(ctx context.Context, tmpl *template.Template) error {
	start := time.Now()

	query := `UPDATE templates
			SET name = $1,
				description = $2,
				blueprint = $3,
				is_public = $4,
				usage_count = $5,
				updated_at = NOW()
			WHERE uuid = $6
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		tmpl.Name,
		tmpl.Description,
		tmpl.Blueprint,
		tmpl.IsPublic,
		tmpl.UsageCount,
		tmpl.UUID,
	).Scan(&tmpl.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить шаблон", err)
		return fmt.Errorf("обновление шаблона: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// доступность (свой или публичный) проверяет сервис
func (s *Storage) GetTemplateByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	start := time.Now()

	query := `SELECT ` + templateColumns + `
				FROM templates
				WHERE uuid = $1`

	tmpl := &template.Template{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&tmpl.UUID,
		&tmpl.UserUUID,
		&tmpl.Name,
		&tmpl.Description,
		&tmpl.Blueprint,
		&tmpl.IsPublic,
		&tmpl.UsageCount,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить шаблон", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение шаблона: %w", err)
	}

	return tmpl, nil
}

func (s *Storage) ListTemplatesByUser(ctx context.Context, userID uuid.UUID) ([]*template.Template, error) {
	query := `SELECT ` + templateColumns + `
				FROM templates
				WHERE user_uuid = $1
				ORDER BY created_at DESC`

	return s.listTemplates(ctx, query, userID)
}

func (s *Storage) ListPublicTemplates(ctx context.Context, excludeUser uuid.UUID, limit int) ([]*template.Template, error) {
	query := `SELECT ` + templateColumns + `
				FROM templates
				WHERE is_public = TRUE AND user_uuid != $1
				ORDER BY usage_count DESC
				LIMIT $2`

	return s.listTemplates(ctx, query, excludeUser, limit)
}

func (s *Storage) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM templates
				WHERE uuid = $1 AND user_uuid = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		logger.Error("Repository: Удаление шаблона", err)
		return fmt.Errorf("удаление шаблона: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) listTemplates(ctx context.Context, query string, args ...any) ([]*template.Template, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить шаблоны", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение шаблонов: %w", err)
	}
	defer rows.Close()

	templates := []*template.Template{}
	for rows.Next() {
		tmpl := &template.Template{}

		err := rows.Scan(
			&tmpl.UUID,
			&tmpl.UserUUID,
			&tmpl.Name,
			&tmpl.Description,
			&tmpl.Blueprint,
			&tmpl.IsPublic,
			&tmpl.UsageCount,
			&tmpl.CreatedAt,
			&tmpl.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования шаблона", zap.Error(err))
			continue
		}

		templates = append(templates, tmpl)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return templates, nil
}

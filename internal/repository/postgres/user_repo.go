package postgres

import (
	"context"
	"errors"
	"fmt"

	"taskflow/internal/logger"
	"taskflow/internal/models/user"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	query := `INSERT INTO users
				(uuid, name, email, password_hash, created_at)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.UUID,
		userToCreate.Name,
		userToCreate.Email,
		userToCreate.PasswordHash,
		userToCreate.CreatedAt,
	).Scan(&userToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT uuid, name, email, password_hash, created_at
				FROM users
				WHERE uuid = $1`

	userToGet := &user.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&userToGet.UUID,
		&userToGet.Name,
		&userToGet.Email,
		&userToGet.PasswordHash,
		&userToGet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	return userToGet, nil
}

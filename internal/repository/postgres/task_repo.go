package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/task"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `uuid,
				user_uuid,
				title,
				description,
				status,
				priority,
				category,
				tags,
				due_date,
				estimated_time,
				actual_time,
				pomodoro_sessions,
				subtasks,
				created_at,
				updated_at`

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, user_uuid, title, description, status, priority, category,
				tags, due_date, estimated_time, actual_time, pomodoro_sessions, subtasks, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.UserUUID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.Category,
		taskToCreate.Tags,
		taskToCreate.DueDate,
		taskToCreate.EstimatedTime,
		taskToCreate.ActualTime,
		taskToCreate.PomodoroSessions,
		taskToCreate.Subtasks,
		taskToCreate.CreatedAt,
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				category = $5,
				tags = $6,
				due_date = $7,
				estimated_time = $8,
				actual_time = $9,
				pomodoro_sessions = $10,
				subtasks = $11,
				updated_at = NOW()
			WHERE uuid = $12 AND user_uuid = $13
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.Priority,
		taskToUpdate.Category,
		taskToUpdate.Tags,
		taskToUpdate.DueDate,
		taskToUpdate.EstimatedTime,
		taskToUpdate.ActualTime,
		taskToUpdate.PomodoroSessions,
		taskToUpdate.Subtasks,
		taskToUpdate.UUID,
		taskToUpdate.UserUUID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE uuid = $1 AND user_uuid = $2`

	taskToGet := &task.Task{}
	err := s.pool.QueryRow(ctx, query, taskID, userID).Scan(
		&taskToGet.UUID,
		&taskToGet.UserUUID,
		&taskToGet.Title,
		&taskToGet.Description,
		&taskToGet.Status,
		&taskToGet.Priority,
		&taskToGet.Category,
		&taskToGet.Tags,
		&taskToGet.DueDate,
		&taskToGet.EstimatedTime,
		&taskToGet.ActualTime,
		&taskToGet.PomodoroSessions,
		&taskToGet.Subtasks,
		&taskToGet.CreatedAt,
		&taskToGet.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return taskToGet, nil
}

// жёсткое удаление: для чужой или несуществующей задачи придёт ErrNotFound
func (s *Storage) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE uuid = $1 AND user_uuid = $2`

	tag, err := s.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// выборка задач владельца с фильтрами и сортировкой. Поле сортировки
// подставляется в запрос только из белого списка
func (s *Storage) ListTasksByUser(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error) {
	start := time.Now()

	conditions := []string{"user_uuid = $1"}
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conditions = append(conditions, "priority = $"+strconv.Itoa(len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}

	if sorting.Field == "" || !task.SortFields[sorting.Field] {
		sorting = task.DefaultSort()
	}
	order := sorting.Field
	if sorting.Desc {
		order += " DESC"
	}

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE ` + strings.Join(conditions, " AND ") + `
				ORDER BY ` + order

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		taskToGet := &task.Task{}

		err := rows.Scan(
			&taskToGet.UUID,
			&taskToGet.UserUUID,
			&taskToGet.Title,
			&taskToGet.Description,
			&taskToGet.Status,
			&taskToGet.Priority,
			&taskToGet.Category,
			&taskToGet.Tags,
			&taskToGet.DueDate,
			&taskToGet.EstimatedTime,
			&taskToGet.ActualTime,
			&taskToGet.PomodoroSessions,
			&taskToGet.Subtasks,
			&taskToGet.CreatedAt,
			&taskToGet.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}

		tasks = append(tasks, taskToGet)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/task"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// проверка полей на допустимые значения происходит на границе (handlers),
// здесь бизнес-правила: владение, значения по умолчанию, порядок операций

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) TaskService {
	return TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

type CreateTaskParams struct {
	Title         string
	Description   string
	Status        task.Status
	Priority      task.Priority
	Category      task.Category
	Tags          []string
	DueDate       *time.Time
	EstimatedTime *int
	Subtasks      []task.Subtask
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, params CreateTaskParams) (*task.Task, error) {
	newTask := &task.Task{
		UUID:          uuid.New(),
		UserUUID:      userID,
		Title:         strings.TrimSpace(params.Title),
		Description:   strings.TrimSpace(params.Description),
		Status:        params.Status,
		Priority:      params.Priority,
		Category:      params.Category,
		Tags:          params.Tags,
		DueDate:       params.DueDate,
		EstimatedTime: params.EstimatedTime,
		Subtasks:      params.Subtasks,
		CreatedAt:     time.Now(),
	}

	if newTask.Status == "" {
		newTask.Status = task.StatusPending
	}
	if newTask.Priority == "" {
		newTask.Priority = task.PriorityMedium
	}
	if newTask.Category == "" {
		newTask.Category = task.CategoryOther
	}
	if newTask.Tags == nil {
		newTask.Tags = []string{}
	}
	if newTask.Subtasks == nil {
		newTask.Subtasks = []task.Subtask{}
	}
	for i := range newTask.Subtasks {
		if newTask.Subtasks[i].CreatedAt.IsZero() {
			newTask.Subtasks[i].CreatedAt = newTask.CreatedAt
		}
	}

	if err := s.repo.CreateTask(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	taskToGet, err := s.repo.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return taskToGet, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasksByUser(ctx, userID, filter, sorting)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// UpdateTask перезаписывает только те поля, для которых пришли опции
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	taskToUpdate, err := s.repo.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		opt(taskToUpdate)
	}
	taskToUpdate.Title = strings.TrimSpace(taskToUpdate.Title)

	if err := s.repo.UpdateTask(ctx, taskToUpdate); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return taskToUpdate, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	err := s.repo.DeleteTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return NewNotFound("задача", taskID.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// BulkResult — итог массовой операции: какие задачи обработаны, какие нет.
// Отката нет, операции выполняются последовательно и независимо
type BulkResult struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type BulkFailure struct {
	UUID   uuid.UUID `json:"uuid"`
	Reason string    `json:"reason"`
}

func (s *TaskService) BulkUpdateStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status task.Status) BulkResult {
	result := BulkResult{Succeeded: []uuid.UUID{}, Failed: []BulkFailure{}}

	for _, id := range ids {
		_, err := s.UpdateTask(ctx, userID, id, task.WithStatus(status))
		if err != nil {
			logger.Warn("Service: Массовое обновление, задача пропущена",
				zap.String("target_id", id.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, BulkFailure{UUID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

func (s *TaskService) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) BulkResult {
	result := BulkResult{Succeeded: []uuid.UUID{}, Failed: []BulkFailure{}}

	for _, id := range ids {
		if err := s.DeleteTask(ctx, userID, id); err != nil {
			logger.Warn("Service: Массовое удаление, задача пропущена",
				zap.String("target_id", id.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, BulkFailure{UUID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/pomodoro"
	"taskflow/internal/models/task"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Серверная часть контроллера помодоро: две операции, каждая — одно
// чтение-изменение-запись задачи. Фазы перерывов живут на клиенте и сюда
// не попадают

type PomodoroService struct {
	repo TaskRepository
}

func NewPomodoroService(repo TaskRepository) PomodoroService {
	return PomodoroService{
		repo: repo,
	}
}

// Start переводит pending-задачу в работу, остальные статусы не трогает
func (s *PomodoroService) Start(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	taskToStart, err := s.repo.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	pomodoro.ApplyStart(taskToStart)

	if err := s.repo.UpdateTask(ctx, taskToStart); err != nil {
		return nil, fmt.Errorf("запуск сессии: %w", err)
	}

	logger.Info("Service: Сессия помодоро запущена",
		zap.String("target_id", taskID.String()),
		zap.String("status", string(taskToStart.Status)))
	return taskToStart, nil
}

// Complete засчитывает завершённый рабочий интервал. Каждый вызов
// увеличивает счётчики: дедупликация повторных вызовов — забота клиента
func (s *PomodoroService) Complete(ctx context.Context, userID, taskID uuid.UUID, minutes int) (*task.Task, error) {
	taskToComplete, err := s.repo.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	pomodoro.ApplyComplete(taskToComplete, minutes)

	if err := s.repo.UpdateTask(ctx, taskToComplete); err != nil {
		return nil, fmt.Errorf("завершение сессии: %w", err)
	}

	logger.Info("Service: Сессия помодоро завершена",
		zap.String("target_id", taskID.String()),
		zap.Int("sessions", taskToComplete.PomodoroSessions),
		zap.Int("actual_time", taskToComplete.ActualTime))
	return taskToComplete, nil
}

type PomodoroOverall struct {
	TotalPomodoros      int     `json:"total_pomodoros"`
	TotalTimeSpent      int     `json:"total_time_spent"`
	AvgPomodorosPerTask float64 `json:"avg_pomodoros_per_task"`
	TasksWithPomodoros  int     `json:"tasks_with_pomodoros"`
}

type PomodoroToday struct {
	Pomodoros int `json:"pomodoros"`
	TimeSpent int `json:"time_spent"`
}

type PomodoroStats struct {
	Overall PomodoroOverall `json:"overall"`
	Today   PomodoroToday   `json:"today"`
}

func (s *PomodoroService) Stats(ctx context.Context, userID uuid.UUID) (PomodoroStats, error) {
	tasks, err := s.repo.ListTasksByUser(ctx, userID, task.Filter{}, task.DefaultSort())
	if err != nil {
		return PomodoroStats{}, fmt.Errorf("получение задач для статистики: %w", err)
	}

	return BuildPomodoroStats(tasks, time.Now()), nil
}

// BuildPomodoroStats — чистый редьюсер: общие суммы по всем задачам плюс
// срез за сегодня по задачам, менявшимся после местной полуночи
func BuildPomodoroStats(tasks []*task.Task, now time.Time) PomodoroStats {
	stats := PomodoroStats{}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, t := range tasks {
		stats.Overall.TotalPomodoros += t.PomodoroSessions
		stats.Overall.TotalTimeSpent += t.ActualTime
		if t.PomodoroSessions > 0 {
			stats.Overall.TasksWithPomodoros++
		}

		touched := t.CreatedAt
		if t.UpdatedAt != nil {
			touched = *t.UpdatedAt
		}
		if !touched.Before(midnight) {
			stats.Today.Pomodoros += t.PomodoroSessions
			stats.Today.TimeSpent += t.ActualTime
		}
	}

	if len(tasks) > 0 {
		stats.Overall.AvgPomodorosPerTask = float64(stats.Overall.TotalPomodoros) / float64(len(tasks))
	}
	return stats
}

package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/task"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// храним копию: указатель вызывающего живёт своей жизнью
	copied := *taskToCreate
	s.storage[copied.UUID] = &copied
	s.ids = append(s.ids, copied.UUID)
	return nil
}

func (s *TaskStorage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToUpdate.UUID]
	if !ok || existed.UserUUID != taskToUpdate.UserUUID {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now

	copied := *taskToUpdate
	s.storage[copied.UUID] = &copied

	return nil
}

func (s *TaskStorage) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[taskID]
	if !ok || taskToGet.UserUUID != userID {
		return nil, repo.ErrNotFound
	}

	copied := *taskToGet
	return &copied, nil
}

// жёсткое удаление, корзины нет
func (s *TaskStorage) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskID]
	if !ok || existed.UserUUID != userID {
		return repo.ErrNotFound
	}

	delete(s.storage, taskID)
	for ind, val := range s.ids {
		if val == taskID {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStorage) ListTasksByUser(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		taskToGet := s.storage[id]
		if taskToGet.UserUUID != userID {
			continue
		}
		if !filter.Match(taskToGet) {
			continue
		}
		copied := *taskToGet
		res = append(res, &copied)
	}

	sortTasks(res, sorting)
	return res, nil
}

func sortTasks(tasks []*task.Task, sorting task.Sort) {
	if sorting.Field == "" {
		sorting = task.DefaultSort()
	}

	less := func(a, b *task.Task) bool {
		switch sorting.Field {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "status":
			return a.Status < b.Status
		case "priority":
			return a.Priority < b.Priority
		case "category":
			return a.Category < b.Category
		case "actual_time":
			return a.ActualTime < b.ActualTime
		case "pomodoro_sessions":
			return a.PomodoroSessions < b.PomodoroSessions
		case "due_date":
			return timeOrZero(a.DueDate).Before(timeOrZero(b.DueDate))
		case "updated_at":
			return timeOrZero(a.UpdatedAt).Before(timeOrZero(b.UpdatedAt))
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if sorting.Desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

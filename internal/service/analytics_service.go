package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/task"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Агрегация считается явными редьюсерами в памяти по всему набору задач
// пользователя, без привязки к языку запросов хранилища

type AnalyticsService struct {
	tasks TaskRepository
	users UserRepository
}

func NewAnalyticsService(tasks TaskRepository, users UserRepository) AnalyticsService {
	return AnalyticsService{
		tasks: tasks,
		users: users,
	}
}

type Overview struct {
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	PendingTasks      int `json:"pending_tasks"`
	InProgressTasks   int `json:"in_progress_tasks"`
	OverdueTasks      int `json:"overdue_tasks"`
	ProductivityScore int `json:"productivity_score"`
}

type CategoryCount struct {
	Category task.Category `json:"category"`
	Count    int           `json:"count"`
}

type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

type Distribution struct {
	ByCategory []CategoryCount `json:"by_category"`
	ByPriority []PriorityCount `json:"by_priority"`
}

// день недели в диапазоне 1..7, где 1 — воскресенье
type WeekdayCount struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

type MonthDayStat struct {
	Day       int `json:"day"`
	Created   int `json:"created"`
	Completed int `json:"completed"`
}

type Trends struct {
	Weekly  []WeekdayCount `json:"weekly"`
	Monthly []MonthDayStat `json:"monthly"`
}

type TimeTracking struct {
	TotalTimeSpent int     `json:"total_time_spent"`
	AvgTimePerTask float64 `json:"avg_time_per_task"`
	TotalPomodoros int     `json:"total_pomodoros"`
}

type Snapshot struct {
	Overview     Overview     `json:"overview"`
	Distribution Distribution `json:"distribution"`
	Trends       Trends       `json:"trends"`
	TimeTracking TimeTracking `json:"time_tracking"`
}

func (s *AnalyticsService) Dashboard(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	start := time.Now()

	tasks, err := s.tasks.ListTasksByUser(ctx, userID, task.Filter{}, task.DefaultSort())
	if err != nil {
		return Snapshot{}, fmt.Errorf("получение задач для аналитики: %w", err)
	}

	snapshot := BuildSnapshot(tasks, time.Now())

	logger.Info("Service: Аналитика собрана",
		zap.Int("tasks", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	return snapshot, nil
}

// BuildSnapshot — чистая функция: весь снимок аналитики выводится из набора
// задач и момента времени now. На пустом наборе возвращает нули и пустые
// (не nil) массивы, деления на ноль не бывает
func BuildSnapshot(tasks []*task.Task, now time.Time) Snapshot {
	return Snapshot{
		Overview:     buildOverview(tasks, now),
		Distribution: buildDistribution(tasks),
		Trends:       buildTrends(tasks, now),
		TimeTracking: buildTimeTracking(tasks),
	}
}

func buildOverview(tasks []*task.Task, now time.Time) Overview {
	o := Overview{TotalTasks: len(tasks)}

	for _, t := range tasks {
		switch t.Status {
		case task.StatusCompleted:
			o.CompletedTasks++
		case task.StatusInProgress:
			o.InProgressTasks++
		default:
			o.PendingTasks++
		}
		if t.IsOverdue(now) {
			o.OverdueTasks++
		}
	}

	if o.TotalTasks > 0 {
		o.ProductivityScore = int(math.Round(float64(o.CompletedTasks) / float64(o.TotalTasks) * 100))
	}
	return o
}

func buildDistribution(tasks []*task.Task) Distribution {
	byCategory := map[task.Category]int{}
	byPriority := map[task.Priority]int{}

	for _, t := range tasks {
		byCategory[t.Category]++
		byPriority[t.Priority]++
	}

	categories := []CategoryCount{}
	for category, count := range byCategory {
		categories = append(categories, CategoryCount{Category: category, Count: count})
	}
	// при равных счётчиках порядок не определён
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})

	priorities := []PriorityCount{}
	for priority, count := range byPriority {
		priorities = append(priorities, PriorityCount{Priority: priority, Count: count})
	}

	return Distribution{ByCategory: categories, ByPriority: priorities}
}

func buildTrends(tasks []*task.Task, now time.Time) Trends {
	// неделя начинается с воскресенья
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := midnight.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	weekly := map[int]int{}
	monthly := map[int]*MonthDayStat{}

	for _, t := range tasks {
		// завершение отслеживается по updated_at
		if t.Status == task.StatusCompleted && t.UpdatedAt != nil && !t.UpdatedAt.Before(startOfWeek) {
			day := int(t.UpdatedAt.Weekday()) + 1
			weekly[day]++
		}

		if !t.CreatedAt.Before(startOfMonth) {
			day := t.CreatedAt.Day()
			stat, ok := monthly[day]
			if !ok {
				stat = &MonthDayStat{Day: day}
				monthly[day] = stat
			}
			stat.Created++
			if t.Status == task.StatusCompleted {
				stat.Completed++
			}
		}
	}

	weeklyStats := []WeekdayCount{}
	for day, count := range weekly {
		weeklyStats = append(weeklyStats, WeekdayCount{Day: day, Count: count})
	}
	sort.Slice(weeklyStats, func(i, j int) bool {
		return weeklyStats[i].Day < weeklyStats[j].Day
	})

	monthlyStats := []MonthDayStat{}
	for _, stat := range monthly {
		monthlyStats = append(monthlyStats, *stat)
	}
	sort.Slice(monthlyStats, func(i, j int) bool {
		return monthlyStats[i].Day < monthlyStats[j].Day
	})

	return Trends{Weekly: weeklyStats, Monthly: monthlyStats}
}

func buildTimeTracking(tasks []*task.Task) TimeTracking {
	tracking := TimeTracking{}
	tracked := 0

	for _, t := range tasks {
		// totalPomodoros считается по всем задачам, время — только по тем,
		// где оно больше нуля
		tracking.TotalPomodoros += t.PomodoroSessions
		if t.ActualTime > 0 {
			tracking.TotalTimeSpent += t.ActualTime
			tracked++
		}
	}

	if tracked > 0 {
		tracking.AvgTimePerTask = float64(tracking.TotalTimeSpent) / float64(tracked)
	}
	return tracking
}

// Export — плоская проекция задач без агрегации, с материализованным
// процентом выполнения и метаданными владельца

type ExportUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ExportTask struct {
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Status               task.Status    `json:"status"`
	Priority             task.Priority  `json:"priority"`
	Category             task.Category  `json:"category"`
	Tags                 []string       `json:"tags"`
	DueDate              *time.Time     `json:"due_date,omitempty"`
	EstimatedTime        *int           `json:"estimated_time,omitempty"`
	ActualTime           int            `json:"actual_time"`
	PomodoroSessions     int            `json:"pomodoro_sessions"`
	Subtasks             []task.Subtask `json:"subtasks"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            *time.Time     `json:"updated_at,omitempty"`
	CompletionPercentage int            `json:"completion_percentage"`
}

type ExportData struct {
	User       ExportUser   `json:"user"`
	ExportDate time.Time    `json:"export_date"`
	TotalTasks int          `json:"total_tasks"`
	Tasks      []ExportTask `json:"tasks"`
}

func (s *AnalyticsService) Export(ctx context.Context, userID uuid.UUID) (ExportData, error) {
	owner, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ExportData{}, NewNotFound("пользователь", userID.String())
		}
		return ExportData{}, fmt.Errorf("получение пользователя: %w", err)
	}

	tasks, err := s.tasks.ListTasksByUser(ctx, userID, task.Filter{}, task.DefaultSort())
	if err != nil {
		return ExportData{}, fmt.Errorf("получение задач для экспорта: %w", err)
	}

	exported := make([]ExportTask, 0, len(tasks))
	for _, t := range tasks {
		exported = append(exported, ExportTask{
			Title:                t.Title,
			Description:          t.Description,
			Status:               t.Status,
			Priority:             t.Priority,
			Category:             t.Category,
			Tags:                 t.Tags,
			DueDate:              t.DueDate,
			EstimatedTime:        t.EstimatedTime,
			ActualTime:           t.ActualTime,
			PomodoroSessions:     t.PomodoroSessions,
			Subtasks:             t.Subtasks,
			CreatedAt:            t.CreatedAt,
			UpdatedAt:            t.UpdatedAt,
			CompletionPercentage: t.CompletionPercentage(),
		})
	}

	return ExportData{
		User:       ExportUser{Name: owner.Name, Email: owner.Email},
		ExportDate: time.Now(),
		TotalTasks: len(exported),
		Tasks:      exported,
	}, nil
}

package task

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID             uuid.UUID  `json:"uuid" db:"uuid"`
	UserUUID         uuid.UUID  `json:"user_uuid" db:"user_uuid"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Status           Status     `json:"status" db:"status"`
	Priority         Priority   `json:"priority" db:"priority"`
	Category         Category   `json:"category" db:"category"`
	Tags             []string   `json:"tags" db:"tags"`
	DueDate          *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimatedTime    *int       `json:"estimated_time,omitempty" db:"estimated_time"`
	ActualTime       int        `json:"actual_time" db:"actual_time"`
	PomodoroSessions int        `json:"pomodoro_sessions" db:"pomodoro_sessions"`
	Subtasks         []Subtask  `json:"subtasks" db:"subtasks"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type Subtask struct {
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type Status string
type Priority string
type Category string

const StatusPending Status = "pending"
const StatusInProgress Status = "in progress"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

const CategoryWork Category = "work"
const CategoryPersonal Category = "personal"
const CategoryHealth Category = "health"
const CategoryLearning Category = "learning"
const CategoryFinance Category = "finance"
const CategoryShopping Category = "shopping"
const CategoryTravel Category = "travel"
const CategoryOther Category = "other"

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning,
		CategoryFinance, CategoryShopping, CategoryTravel, CategoryOther:
		return true
	}
	return false
}

// просроченность не хранится в базе, всегда вычисляется от текущего времени
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// процент выполнения: по подзадачам, если они есть, иначе по статусу
func (t *Task) CompletionPercentage() int {
	if len(t.Subtasks) == 0 {
		if t.Status == StatusCompleted {
			return 100
		}
		return 0
	}

	done := 0
	for _, sub := range t.Subtasks {
		if sub.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(t.Subtasks)) * 100))
}

// Filter ограничивает выборку задач по статусу, приоритету и категории.
// nil-поле означает "без фильтра"
type Filter struct {
	Status   *Status
	Priority *Priority
	Category *Category
}

func (f Filter) Match(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	return true
}

type Sort struct {
	Field string
	Desc  bool
}

// поля, по которым разрешена сортировка
var SortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"due_date":          true,
	"title":             true,
	"status":            true,
	"priority":          true,
	"category":          true,
	"actual_time":       true,
	"pomodoro_sessions": true,
}

func DefaultSort() Sort {
	return Sort{Field: "created_at", Desc: true}
}

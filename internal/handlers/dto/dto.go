package dto

import (
	"time"

	"taskflow/internal/models/task"
	"taskflow/internal/models/template"

	"github.com/google/uuid"
)

type SubtaskRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CreateTaskRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	Category      string           `json:"category"`
	Tags          []string         `json:"tags"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	EstimatedTime *int             `json:"estimated_time,omitempty"`
	Subtasks      []SubtaskRequest `json:"subtasks"`
}

// отсутствующее поле (nil) остаётся нетронутым
type UpdateTaskRequest struct {
	Title         *string           `json:"title,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Status        *string           `json:"status,omitempty"`
	Priority      *string           `json:"priority,omitempty"`
	Category      *string           `json:"category,omitempty"`
	Tags          *[]string         `json:"tags,omitempty"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	EstimatedTime *int              `json:"estimated_time,omitempty"`
	Subtasks      *[]SubtaskRequest `json:"subtasks,omitempty"`
}

type BulkStatusRequest struct {
	UUIDs  []uuid.UUID `json:"uuids"`
	Status string      `json:"status"`
}

type BulkDeleteRequest struct {
	UUIDs []uuid.UUID `json:"uuids"`
}

type CompletePomodoroRequest struct {
	TimeSpent *int `json:"time_spent,omitempty"`
}

type CreateTemplateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IsPublic    bool             `json:"is_public"`
	Blueprint   BlueprintRequest `json:"blueprint"`
}

type BlueprintRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	EstimatedTime *int     `json:"estimated_time,omitempty"`
	Subtasks      []string `json:"subtasks"`
}

type TaskResponse struct {
	UUID                 uuid.UUID      `json:"uuid"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Status               string         `json:"status"`
	Priority             string         `json:"priority"`
	Category             string         `json:"category"`
	Tags                 []string       `json:"tags"`
	DueDate              *time.Time     `json:"due_date,omitempty"`
	EstimatedTime        *int           `json:"estimated_time,omitempty"`
	ActualTime           int            `json:"actual_time"`
	PomodoroSessions     int            `json:"pomodoro_sessions"`
	Subtasks             []task.Subtask `json:"subtasks"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            *time.Time     `json:"updated_at,omitempty"`
	IsOverdue            bool           `json:"is_overdue"`
	CompletionPercentage int            `json:"completion_percentage"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:                 t.UUID,
		Title:                t.Title,
		Description:          t.Description,
		Status:               string(t.Status),
		Priority:             string(t.Priority),
		Category:             string(t.Category),
		Tags:                 t.Tags,
		DueDate:              t.DueDate,
		EstimatedTime:        t.EstimatedTime,
		ActualTime:           t.ActualTime,
		PomodoroSessions:     t.PomodoroSessions,
		Subtasks:             t.Subtasks,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		IsOverdue:            t.IsOverdue(time.Now()),
		CompletionPercentage: t.CompletionPercentage(),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type TemplateListResponse struct {
	User   []*template.Template `json:"user"`
	Public []*template.Template `json:"public"`
}

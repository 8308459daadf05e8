package handlers

import (
	"context"

	"taskflow/internal/models/task"
	"taskflow/internal/models/template"
	"taskflow/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, userID uuid.UUID, params service.CreateTaskParams) (*task.Task, error)
	GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	BulkUpdateStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status task.Status) service.BulkResult
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) service.BulkResult
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (service.Snapshot, error)
	Export(ctx context.Context, userID uuid.UUID) (service.ExportData, error)
}

type PomodoroService interface {
	Start(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error)
	Complete(ctx context.Context, userID, taskID uuid.UUID, minutes int) (*task.Task, error)
	Stats(ctx context.Context, userID uuid.UUID) (service.PomodoroStats, error)
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, userID uuid.UUID, params service.CreateTemplateParams) (*template.Template, error)
	ListTemplates(ctx context.Context, userID uuid.UUID) (own, public []*template.Template, err error)
	UseTemplate(ctx context.Context, userID, templateID uuid.UUID) (*task.Task, error)
	DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error
}

package service

import (
	"context"

	"taskflow/internal/models/task"
	"taskflow/internal/models/template"
	"taskflow/internal/models/user"

	"github.com/google/uuid"
)

// Репозитории всегда работают в границах владельца: чтение и запись чужих
// задач заканчиваются ErrNotFound ещё на уровне хранилища

type TaskRepository interface {
	CreateTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, t *task.Task) error
	GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	ListTasksByUser(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error)
	HealthCheck(ctx context.Context) error
}

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, tmpl *template.Template) error
	UpdateTemplate(ctx context.Context, tmpl *template.Template) error
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*template.Template, error)
	ListTemplatesByUser(ctx context.Context, userID uuid.UUID) ([]*template.Template, error)
	ListPublicTemplates(ctx context.Context, excludeUser uuid.UUID, limit int) ([]*template.Template, error)
	DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

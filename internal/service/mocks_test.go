package service_test

import (
	"context"

	"taskflow/internal/models/task"
	"taskflow/internal/models/template"
	"taskflow/internal/models/user"
	"taskflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskRepository) ListTasksByUser(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error) {
	args := m.Called(ctx, userID, filter, sorting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockTemplateRepository - мок репозитория шаблонов
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) CreateTemplate(ctx context.Context, tmpl *template.Template) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) UpdateTemplate(ctx context.Context, tmpl *template.Template) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*template.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplatesByUser(ctx context.Context, userID uuid.UUID) ([]*template.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*template.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListPublicTemplates(ctx context.Context, excludeUser uuid.UUID, limit int) ([]*template.Template, error) {
	args := m.Called(ctx, excludeUser, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*template.Template), args.Error(1)
}

func (m *MockTemplateRepository) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

var _ service.TemplateRepository = (*MockTemplateRepository)(nil)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var _ service.UserRepository = (*MockUserRepository)(nil)

func testUser(id uuid.UUID, name, email string) *user.User {
	return &user.User{UUID: id, Name: name, Email: email}
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskflow/internal/handlers"
	"taskflow/internal/middleware"
	"taskflow/internal/models/task"
	"taskflow/internal/models/template"
	"taskflow/internal/models/user"
	"taskflow/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, userID uuid.UUID, params service.CreateTaskParams) (*task.Task, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter task.Filter, sorting task.Sort) ([]*task.Task, error) {
	args := m.Called(ctx, userID, filter, sorting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	args := m.Called(ctx, userID, taskID, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskService) BulkUpdateStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status task.Status) service.BulkResult {
	args := m.Called(ctx, userID, ids, status)
	return args.Get(0).(service.BulkResult)
}

func (m *MockTaskService) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) service.BulkResult {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(service.BulkResult)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

// MockAnalyticsService - мок сервиса аналитики
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context, userID uuid.UUID) (service.Snapshot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.Snapshot), args.Error(1)
}

func (m *MockAnalyticsService) Export(ctx context.Context, userID uuid.UUID) (service.ExportData, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.ExportData), args.Error(1)
}

var _ handlers.AnalyticsService = (*MockAnalyticsService)(nil)

// MockPomodoroService - мок сервиса помодоро
type MockPomodoroService struct {
	mock.Mock
}

func (m *MockPomodoroService) Start(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockPomodoroService) Complete(ctx context.Context, userID, taskID uuid.UUID, minutes int) (*task.Task, error) {
	args := m.Called(ctx, userID, taskID, minutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockPomodoroService) Stats(ctx context.Context, userID uuid.UUID) (service.PomodoroStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.PomodoroStats), args.Error(1)
}

var _ handlers.PomodoroService = (*MockPomodoroService)(nil)

// MockTemplateService - мок сервиса шаблонов
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) CreateTemplate(ctx context.Context, userID uuid.UUID, params service.CreateTemplateParams) (*template.Template, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*template.Template), args.Error(1)
}

func (m *MockTemplateService) ListTemplates(ctx context.Context, userID uuid.UUID) ([]*template.Template, []*template.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*template.Template), args.Get(1).([]*template.Template), args.Error(2)
}

func (m *MockTemplateService) UseTemplate(ctx context.Context, userID, templateID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, userID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTemplateService) DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}

var _ handlers.TemplateService = (*MockTemplateService)(nil)

var testUser = &user.User{
	UUID:  uuid.New(),
	Name:  "Тест",
	Email: "test@example.com",
}

// authRequest собирает запрос с пользователем в контексте и chi-параметром id
func authRequest(method, target string, body []byte, taskID string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}

	ctx := middleware.WithUser(r.Context(), testUser)
	if taskID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", taskID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// TestTaskHandler_PostTask тестирует создание задачи
func TestTaskHandler_PostTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("CreateTask", mock.Anything, testUser.UUID, mock.MatchedBy(func(p service.CreateTaskParams) bool {
			return p.Title == "Новая задача" && p.Priority == task.PriorityHigh
		})).Return(&task.Task{
			UUID:     uuid.New(),
			Title:    "Новая задача",
			Status:   task.StatusPending,
			Priority: task.PriorityHigh,
		}, nil)

		handler := handlers.NewTaskHandler(mockService)
		body := []byte(`{"title": "Новая задача", "priority": "high"}`)
		w := httptest.NewRecorder()

		handler.PostTask(w, authRequest(http.MethodPost, "/tasks", body, ""))

		assert.Equal(t, http.StatusCreated, w.Code)
		response := decodeBody(t, w)
		created := response["task"].(map[string]any)
		assert.Equal(t, "Новая задача", created["title"])
		mockService.AssertExpectations(t)
	})

	t.Run("validation error - empty title", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		body := []byte(`{"title": "   "}`)
		w := httptest.NewRecorder()

		handler.PostTask(w, authRequest(http.MethodPost, "/tasks", body, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, service.CodeValidation, response["error"])
		mockService.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation error - bad status", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		body := []byte(`{"title": "x", "status": "archived"}`)
		w := httptest.NewRecorder()

		handler.PostTask(w, authRequest(http.MethodPost, "/tasks", body, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)

		r := authRequest(http.MethodPost, "/tasks", []byte(`{"title":"x"}`), "")
		r.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()

		handler.PostTask(w, r)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)

		r := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"x"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.PostTask(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestTaskHandler_GetTasks тестирует выборку с фильтрами
func TestTaskHandler_GetTasks(t *testing.T) {
	t.Run("success with filter and sort", func(t *testing.T) {
		statusPending := task.StatusPending
		expectedFilter := task.Filter{Status: &statusPending}
		expectedSort := task.Sort{Field: "due_date", Desc: false}

		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything, testUser.UUID, expectedFilter, expectedSort).
			Return([]*task.Task{{UUID: uuid.New(), Title: "a"}}, nil)

		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTasks(w, authRequest(http.MethodGet, "/tasks?status=pending&sort_by=due_date&order=asc", nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, float64(1), response["count"])
		mockService.AssertExpectations(t)
	})

	t.Run("invalid filter value", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTasks(w, authRequest(http.MethodGet, "/tasks?status=deleted", nil, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid sort field", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTasks(w, authRequest(http.MethodGet, "/tasks?sort_by=uuid", nil, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestTaskHandler_GetTaskByID тестирует получение одной задачи
func TestTaskHandler_GetTaskByID(t *testing.T) {
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		due := time.Now().Add(-time.Hour)
		mockService := new(MockTaskService)
		mockService.On("GetTaskByID", mock.Anything, testUser.UUID, taskID).
			Return(&task.Task{UUID: taskID, Title: "Найдена", Status: task.StatusPending, DueDate: &due}, nil)

		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTaskByID(w, authRequest(http.MethodGet, "/tasks/"+taskID.String(), nil, taskID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		retrieved := response["task"].(map[string]any)
		// производные поля присутствуют в ответе
		assert.Equal(t, true, retrieved["is_overdue"])
		assert.Equal(t, float64(0), retrieved["completion_percentage"])
	})

	t.Run("not found", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("GetTaskByID", mock.Anything, testUser.UUID, taskID).
			Return(nil, service.NewNotFound("задача", taskID.String()))

		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTaskByID(w, authRequest(http.MethodGet, "/tasks/"+taskID.String(), nil, taskID.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, service.CodeNotFound, response["error"])
	})

	t.Run("malformed id", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTaskByID(w, authRequest(http.MethodGet, "/tasks/not-a-uuid", nil, "not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestTaskHandler_UpdateTaskByID тестирует частичное обновление
func TestTaskHandler_UpdateTaskByID(t *testing.T) {
	taskID := uuid.New()

	t.Run("success - only sent fields become options", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, testUser.UUID, taskID, mock.MatchedBy(func(options []task.TaskOption) bool {
			return len(options) == 2
		})).Return(&task.Task{UUID: taskID, Title: "Обновлена", Status: task.StatusCompleted}, nil)

		handler := handlers.NewTaskHandler(mockService)
		body := []byte(`{"title": "Обновлена", "status": "completed"}`)
		w := httptest.NewRecorder()

		handler.UpdateTaskByID(w, authRequest(http.MethodPut, "/tasks/"+taskID.String(), body, taskID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("validation stops before service call", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		body := []byte(`{"priority": "urgent"}`)
		w := httptest.NewRecorder()

		handler.UpdateTaskByID(w, authRequest(http.MethodPut, "/tasks/"+taskID.String(), body, taskID.String()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestTaskHandler_DeleteTaskByID тестирует удаление
func TestTaskHandler_DeleteTaskByID(t *testing.T) {
	taskID := uuid.New()

	mockService := new(MockTaskService)
	mockService.On("DeleteTask", mock.Anything, testUser.UUID, taskID).Return(nil)

	handler := handlers.NewTaskHandler(mockService)
	w := httptest.NewRecorder()

	handler.DeleteTaskByID(w, authRequest(http.MethodDelete, "/tasks/"+taskID.String(), nil, taskID.String()))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestTaskHandler_Bulk тестирует массовые операции
func TestTaskHandler_Bulk(t *testing.T) {
	okID := uuid.New()
	badID := uuid.New()

	t.Run("bulk status with partial failure", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("BulkUpdateStatus", mock.Anything, testUser.UUID, []uuid.UUID{okID, badID}, task.StatusCompleted).
			Return(service.BulkResult{
				Succeeded: []uuid.UUID{okID},
				Failed:    []service.BulkFailure{{UUID: badID, Reason: "задача не найдена"}},
			})

		handler := handlers.NewTaskHandler(mockService)
		body, _ := json.Marshal(map[string]any{
			"uuids":  []string{okID.String(), badID.String()},
			"status": "completed",
		})
		w := httptest.NewRecorder()

		handler.BulkStatus(w, authRequest(http.MethodPost, "/tasks/bulk/status", body, ""))

		// частичный отказ - это всё равно 200 с разбивкой
		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		result := response["result"].(map[string]any)
		assert.Len(t, result["succeeded"], 1)
		assert.Len(t, result["failed"], 1)
	})

	t.Run("empty id list", func(t *testing.T) {
		mockService := new(MockTaskService)
		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.BulkDelete(w, authRequest(http.MethodPost, "/tasks/bulk/delete", []byte(`{"uuids": []}`), ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestTaskHandler_HealthCheck тестирует проверку здоровья
func TestTaskHandler_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("HealthCheck", mock.Anything).Return(nil)

		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("HealthCheck", mock.Anything).Return(errors.New("db down"))

		handler := handlers.NewTaskHandler(mockService)
		w := httptest.NewRecorder()

		handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

// TestAnalyticsHandler тестирует выдачу аналитики
func TestAnalyticsHandler(t *testing.T) {
	t.Run("dashboard", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		mockService.On("Dashboard", mock.Anything, testUser.UUID).Return(service.Snapshot{
			Overview: service.Overview{TotalTasks: 2, CompletedTasks: 1, ProductivityScore: 50},
		}, nil)

		handler := handlers.NewAnalyticsHandler(mockService)
		w := httptest.NewRecorder()

		handler.Dashboard(w, authRequest(http.MethodGet, "/analytics/dashboard", nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		analytics := response["analytics"].(map[string]any)
		overview := analytics["overview"].(map[string]any)
		assert.Equal(t, float64(50), overview["productivity_score"])
	})

	t.Run("export", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		mockService.On("Export", mock.Anything, testUser.UUID).Return(service.ExportData{
			User:       service.ExportUser{Name: "Тест", Email: "test@example.com"},
			TotalTasks: 1,
			Tasks:      []service.ExportTask{{Title: "Одна"}},
		}, nil)

		handler := handlers.NewAnalyticsHandler(mockService)
		w := httptest.NewRecorder()

		handler.Export(w, authRequest(http.MethodGet, "/analytics/export", nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		data := response["data"].(map[string]any)
		assert.Equal(t, float64(1), data["total_tasks"])
	})

	t.Run("dashboard error", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		mockService.On("Dashboard", mock.Anything, testUser.UUID).
			Return(service.Snapshot{}, errors.New("db down"))

		handler := handlers.NewAnalyticsHandler(mockService)
		w := httptest.NewRecorder()

		handler.Dashboard(w, authRequest(http.MethodGet, "/analytics/dashboard", nil, ""))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// TestPomodoroHandler тестирует операции помодоро
func TestPomodoroHandler(t *testing.T) {
	taskID := uuid.New()

	t.Run("start", func(t *testing.T) {
		mockService := new(MockPomodoroService)
		mockService.On("Start", mock.Anything, testUser.UUID, taskID).
			Return(&task.Task{UUID: taskID, Status: task.StatusInProgress}, nil)

		handler := handlers.NewPomodoroHandler(mockService)
		w := httptest.NewRecorder()

		handler.Start(w, authRequest(http.MethodPost, "/pomodoro/start/"+taskID.String(), nil, taskID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		started := response["task"].(map[string]any)
		assert.Equal(t, "in progress", started["status"])
	})

	t.Run("complete with minutes", func(t *testing.T) {
		mockService := new(MockPomodoroService)
		mockService.On("Complete", mock.Anything, testUser.UUID, taskID, 30).
			Return(&task.Task{UUID: taskID, Status: task.StatusInProgress, ActualTime: 30, PomodoroSessions: 1}, nil)

		handler := handlers.NewPomodoroHandler(mockService)
		body := []byte(`{"time_spent": 30}`)
		w := httptest.NewRecorder()

		handler.Complete(w, authRequest(http.MethodPost, "/pomodoro/complete/"+taskID.String(), body, taskID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("complete without body defaults", func(t *testing.T) {
		mockService := new(MockPomodoroService)
		mockService.On("Complete", mock.Anything, testUser.UUID, taskID, 0).
			Return(&task.Task{UUID: taskID, ActualTime: 25, PomodoroSessions: 1}, nil)

		handler := handlers.NewPomodoroHandler(mockService)
		w := httptest.NewRecorder()

		handler.Complete(w, authRequest(http.MethodPost, "/pomodoro/complete/"+taskID.String(), nil, taskID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("stats", func(t *testing.T) {
		mockService := new(MockPomodoroService)
		mockService.On("Stats", mock.Anything, testUser.UUID).Return(service.PomodoroStats{
			Overall: service.PomodoroOverall{TotalPomodoros: 4, TotalTimeSpent: 100},
			Today:   service.PomodoroToday{Pomodoros: 2, TimeSpent: 50},
		}, nil)

		handler := handlers.NewPomodoroHandler(mockService)
		w := httptest.NewRecorder()

		handler.Stats(w, authRequest(http.MethodGet, "/pomodoro/stats", nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		stats := response["stats"].(map[string]any)
		overall := stats["overall"].(map[string]any)
		assert.Equal(t, float64(4), overall["total_pomodoros"])
	})
}

// TestTemplateHandler тестирует операции с шаблонами
func TestTemplateHandler(t *testing.T) {
	templateID := uuid.New()

	t.Run("list", func(t *testing.T) {
		mockService := new(MockTemplateService)
		mockService.On("ListTemplates", mock.Anything, testUser.UUID).Return(
			[]*template.Template{{UUID: uuid.New(), Name: "мой"}},
			[]*template.Template{{UUID: uuid.New(), Name: "публичный", IsPublic: true}},
			nil,
		)

		handler := handlers.NewTemplateHandler(mockService)
		w := httptest.NewRecorder()

		handler.GetTemplates(w, authRequest(http.MethodGet, "/templates", nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		templates := response["templates"].(map[string]any)
		assert.Len(t, templates["user"], 1)
		assert.Len(t, templates["public"], 1)
	})

	t.Run("create", func(t *testing.T) {
		mockService := new(MockTemplateService)
		mockService.On("CreateTemplate", mock.Anything, testUser.UUID, mock.MatchedBy(func(p service.CreateTemplateParams) bool {
			return p.Name == "Отчёт" && p.Blueprint.Title == "Собрать отчёт"
		})).Return(&template.Template{UUID: templateID, Name: "Отчёт"}, nil)

		handler := handlers.NewTemplateHandler(mockService)
		body := []byte(`{"name": "Отчёт", "blueprint": {"title": "Собрать отчёт"}}`)
		w := httptest.NewRecorder()

		handler.PostTemplate(w, authRequest(http.MethodPost, "/templates", body, ""))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("create without name", func(t *testing.T) {
		mockService := new(MockTemplateService)
		handler := handlers.NewTemplateHandler(mockService)
		body := []byte(`{"name": "", "blueprint": {"title": "x"}}`)
		w := httptest.NewRecorder()

		handler.PostTemplate(w, authRequest(http.MethodPost, "/templates", body, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("use", func(t *testing.T) {
		mockService := new(MockTemplateService)
		mockService.On("UseTemplate", mock.Anything, testUser.UUID, templateID).
			Return(&task.Task{UUID: uuid.New(), Title: "Из шаблона", Status: task.StatusPending}, nil)

		handler := handlers.NewTemplateHandler(mockService)
		w := httptest.NewRecorder()

		handler.UseTemplate(w, authRequest(http.MethodPost, "/templates/"+templateID.String()+"/use", nil, templateID.String()))

		assert.Equal(t, http.StatusCreated, w.Code)
		response := decodeBody(t, w)
		created := response["task"].(map[string]any)
		assert.Equal(t, "Из шаблона", created["title"])
	})

	t.Run("use missing template", func(t *testing.T) {
		mockService := new(MockTemplateService)
		mockService.On("UseTemplate", mock.Anything, testUser.UUID, templateID).
			Return(nil, service.NewNotFound("шаблон", templateID.String()))

		handler := handlers.NewTemplateHandler(mockService)
		w := httptest.NewRecorder()

		handler.UseTemplate(w, authRequest(http.MethodPost, "/templates/"+templateID.String()+"/use", nil, templateID.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		mockService := new(MockTemplateService)
		mockService.On("DeleteTemplate", mock.Anything, testUser.UUID, templateID).Return(nil)

		handler := handlers.NewTemplateHandler(mockService)
		w := httptest.NewRecorder()

		handler.DeleteTemplate(w, authRequest(http.MethodDelete, "/templates/"+templateID.String(), nil, templateID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

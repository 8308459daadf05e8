package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskflow/internal/handlers/dto"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	"taskflow/internal/models/task"
	"taskflow/internal/models/user"
	"taskflow/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// аутентифицированный пользователь кладётся в контекст middleware-ом;
// без него запрос не должен был дойти до handler-а
func currentUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	authUser := middleware.UserFromContext(r.Context())
	if authUser == nil {
		logger.Warn("HTTP: Запрос без аутентификации",
			zap.String("path", r.URL.Path),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return nil, false
	}
	return authUser, true
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Неверный формат идентификатора",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверный формат идентификатора")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter := task.Filter{}
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status, vErr := validateStatus(raw)
		if vErr != nil {
			handleBusinessError(w, vErr)
			return
		}
		filter.Status = &status
	}
	if raw := query.Get("priority"); raw != "" {
		priority, vErr := validatePriority(raw)
		if vErr != nil {
			handleBusinessError(w, vErr)
			return
		}
		filter.Priority = &priority
	}
	if raw := query.Get("category"); raw != "" {
		category, vErr := validateCategory(raw)
		if vErr != nil {
			handleBusinessError(w, vErr)
			return
		}
		filter.Category = &category
	}

	sorting, vErr := validateSort(query.Get("sort_by"), query.Get("order"))
	if vErr != nil {
		handleBusinessError(w, vErr)
		return
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), authUser.UUID, filter, sorting)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка получения задач")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("count", len(tasks)),
		toPayload("tasks", dto.FromTaskList(tasks)),
	)
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	params, vErr := buildCreateParams(request)
	if vErr != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Any("details", vErr.Details),
			zap.String("client_ip", r.RemoteAddr))
		handleBusinessError(w, vErr)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), authUser.UUID, params)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка создания задачи")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created)))
}

func buildCreateParams(request dto.CreateTaskRequest) (service.CreateTaskParams, *service.BusinessError) {
	params := service.CreateTaskParams{
		Title:         request.Title,
		Description:   request.Description,
		Tags:          request.Tags,
		DueDate:       request.DueDate,
		EstimatedTime: request.EstimatedTime,
	}

	if vErr := validateTitle(request.Title); vErr != nil {
		return params, vErr
	}
	if vErr := validateDescription(request.Description); vErr != nil {
		return params, vErr
	}
	if request.Status != "" {
		status, vErr := validateStatus(request.Status)
		if vErr != nil {
			return params, vErr
		}
		params.Status = status
	}
	if request.Priority != "" {
		priority, vErr := validatePriority(request.Priority)
		if vErr != nil {
			return params, vErr
		}
		params.Priority = priority
	}
	if request.Category != "" {
		category, vErr := validateCategory(request.Category)
		if vErr != nil {
			return params, vErr
		}
		params.Category = category
	}
	if vErr := validateTags(request.Tags); vErr != nil {
		return params, vErr
	}
	if vErr := validateDueDate(request.DueDate); vErr != nil {
		return params, vErr
	}
	if vErr := validateEstimatedTime(request.EstimatedTime); vErr != nil {
		return params, vErr
	}
	if vErr := validateSubtasks(request.Subtasks); vErr != nil {
		return params, vErr
	}
	params.Subtasks = toSubtasks(request.Subtasks)

	return params, nil
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	taskToGet, err := h.TaskService.GetTaskByID(r.Context(), authUser.UUID, taskID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка получения задачи")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(taskToGet)))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	options, vErr := buildUpdateOptions(request)
	if vErr != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Any("details", vErr.Details),
			zap.String("client_ip", r.RemoteAddr))
		handleBusinessError(w, vErr)
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), authUser.UUID, taskID, options...)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка обновления задачи")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", taskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

// опции собираются только для полей, явно присутствующих в запросе
func buildUpdateOptions(request dto.UpdateTaskRequest) ([]task.TaskOption, *service.BusinessError) {
	options := []task.TaskOption{}

	if request.Title != nil {
		if vErr := validateTitle(*request.Title); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithTitle(*request.Title))
	}
	if request.Description != nil {
		if vErr := validateDescription(*request.Description); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.Status != nil {
		status, vErr := validateStatus(*request.Status)
		if vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithStatus(status))
	}
	if request.Priority != nil {
		priority, vErr := validatePriority(*request.Priority)
		if vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithPriority(priority))
	}
	if request.Category != nil {
		category, vErr := validateCategory(*request.Category)
		if vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithCategory(category))
	}
	if request.Tags != nil {
		if vErr := validateTags(*request.Tags); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithTags(*request.Tags))
	}
	if request.DueDate != nil {
		if vErr := validateDueDate(request.DueDate); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithDueDate(request.DueDate))
	}
	if request.EstimatedTime != nil {
		if vErr := validateEstimatedTime(request.EstimatedTime); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithEstimatedTime(request.EstimatedTime))
	}
	if request.Subtasks != nil {
		if vErr := validateSubtasks(*request.Subtasks); vErr != nil {
			return nil, vErr
		}
		options = append(options, task.WithSubtasks(toSubtasks(*request.Subtasks)))
	}

	return options, nil
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), authUser.UUID, taskID); err != nil {
		handleServiceError(w, err, "HTTP: Ошибка удаления задачи")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("message", "задача удалена"))
}

func (h *TaskHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.BulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if len(request.UUIDs) == 0 {
		handleBusinessError(w, service.NewValidationError("uuids", "список не может быть пустым"))
		return
	}
	status, vErr := validateStatus(request.Status)
	if vErr != nil {
		handleBusinessError(w, vErr)
		return
	}

	result := h.TaskService.BulkUpdateStatus(r.Context(), authUser.UUID, request.UUIDs, status)

	responseWithJSON(w, http.StatusOK, toPayload("result", result))
}

func (h *TaskHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if len(request.UUIDs) == 0 {
		handleBusinessError(w, service.NewValidationError("uuids", "список не может быть пустым"))
		return
	}

	result := h.TaskService.BulkDelete(r.Context(), authUser.UUID, request.UUIDs)

	responseWithJSON(w, http.StatusOK, toPayload("result", result))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис нездоров", err)
		responseWithError(w, http.StatusServiceUnavailable, "сервис недоступен")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

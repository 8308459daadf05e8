package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"taskflow/internal/handlers/dto"
	"taskflow/internal/logger"

	"go.uber.org/zap"
)

type PomodoroHandler struct {
	PomodoroService PomodoroService
}

func NewPomodoroHandler(pomodoroService PomodoroService) PomodoroHandler {
	return PomodoroHandler{
		PomodoroService: pomodoroService,
	}
}

func (h *PomodoroHandler) Start(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	started, err := h.PomodoroService.Start(r.Context(), authUser.UUID, taskID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка запуска сессии")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "сессия помодоро запущена"),
		toPayload("task", dto.FromTask(started)),
	)
}

func (h *PomodoroHandler) Complete(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	// тело необязательно: без него засчитываются стандартные 25 минут
	var request dto.CompletePomodoroRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	minutes := 0
	if request.TimeSpent != nil {
		minutes = *request.TimeSpent
	}

	completed, err := h.PomodoroService.Complete(r.Context(), authUser.UUID, taskID, minutes)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка завершения сессии")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "сессия помодоро завершена"),
		toPayload("task", dto.FromTask(completed)),
	)
}

func (h *PomodoroHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.PomodoroService.Stats(r.Context(), authUser.UUID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка сбора статистики помодоро")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("stats", stats))
}

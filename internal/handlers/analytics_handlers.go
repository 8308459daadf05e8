package handlers

import (
	"net/http"
	"time"

	"taskflow/internal/logger"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	AnalyticsService AnalyticsService
}

func NewAnalyticsHandler(analyticsService AnalyticsService) AnalyticsHandler {
	return AnalyticsHandler{
		AnalyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	snapshot, err := h.AnalyticsService.Dashboard(r.Context(), authUser.UUID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка сбора аналитики")
		return
	}

	logger.Info("HTTP_OUT: Аналитика отдана",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("analytics", snapshot))
}

func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	exported, err := h.AnalyticsService.Export(r.Context(), authUser.UUID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка экспорта")
		return
	}

	logger.Info("HTTP_OUT: Экспорт выполнен",
		zap.Int("tasks", exported.TotalTasks),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("data", exported))
}

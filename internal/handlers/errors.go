package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/logger"
	"taskflow/internal/service"

	"go.uber.org/zap"
)

// в режиме разработки внутренние ошибки отдаются клиенту как есть,
// в бою — только общая формулировка
var development bool

func SetDevelopment(dev bool) {
	development = dev
}

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// handleServiceError закрывает оба случая: бизнес-ошибка или внутренняя
func handleServiceError(w http.ResponseWriter, err error, logMessage string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error(logMessage, err)

	message := "внутренняя ошибка сервера"
	if development {
		message = err.Error()
	}
	responseWithError(w, http.StatusInternalServerError, message)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"taskflow/internal/handlers/dto"
	"taskflow/internal/logger"
	"taskflow/internal/models/template"
	"taskflow/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxTemplateNameLen = 50
const maxTemplateDescriptionLen = 200

type TemplateHandler struct {
	TemplateService TemplateService
}

func NewTemplateHandler(templateService TemplateService) TemplateHandler {
	return TemplateHandler{
		TemplateService: templateService,
	}
}

func (h *TemplateHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	own, public, err := h.TemplateService.ListTemplates(r.Context(), authUser.UUID)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка получения шаблонов")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("templates", dto.TemplateListResponse{User: own, Public: public}),
	)
}

func (h *TemplateHandler) PostTemplate(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	params, vErr := buildTemplateParams(request)
	if vErr != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Any("details", vErr.Details),
			zap.String("client_ip", r.RemoteAddr))
		handleBusinessError(w, vErr)
		return
	}

	created, err := h.TemplateService.CreateTemplate(r.Context(), authUser.UUID, params)
	if err != nil {
		handleServiceError(w, err, "HTTP: Ошибка создания шаблона")
		return
	}

	responseWithJSON(w, http.StatusCreated, toPayload("template", created))
}

func buildTemplateParams(request dto.CreateTemplateRequest) (service.CreateTemplateParams, *service.BusinessError) {
	params := service.CreateTemplateParams{
		Name:        request.Name,
		Description: request.Description,
		IsPublic:    request.IsPublic,
	}

	if strings.TrimSpace(request.Name) == "" {
		return params, service.NewValidationError("name", "не может быть пустым")
	}
	if len([]rune(request.Name)) > maxTemplateNameLen {
		return params, service.NewValidationError("name", "длиннее 50 символов")
	}
	if len([]rune(request.Description)) > maxTemplateDescriptionLen {
		return params, service.NewValidationError("description", "длиннее 200 символов")
	}

	if vErr := validateTitle(request.Blueprint.Title); vErr != nil {
		return params, vErr
	}
	if vErr := validateDescription(request.Blueprint.Description); vErr != nil {
		return params, vErr
	}

	blueprint := template.Blueprint{
		Title:         strings.TrimSpace(request.Blueprint.Title),
		Description:   strings.TrimSpace(request.Blueprint.Description),
		Tags:          request.Blueprint.Tags,
		EstimatedTime: request.Blueprint.EstimatedTime,
		Subtasks:      request.Blueprint.Subtasks,
	}

	if request.Blueprint.Priority != "" {
		priority, vErr := validatePriority(request.Blueprint.Priority)
		if vErr != nil {
			return params, vErr
		}
		blueprint.Priority = priority
	}
	if request.Blueprint.Category != "" {
		category, vErr := validateCategory(request.Blueprint.Category)
		if vErr != nil {
			return params, vErr
		}
		blueprint.Category = category
	}
	if vErr := validateTags(request.Blueprint.Tags); vErr != nil {
		return params, vErr
	}
	if vErr := validateEstimatedTime(request.Blueprint.EstimatedTime); vErr != nil {
		return params, vErr
	}
	for _, title := range request.Blueprint.Subtasks {
		if strings.TrimSpace(title) == "" {
			return params, service.NewValidationError("blueprint.subtasks", "название подзадачи не может быть пустым")
		}
	}

	params.Blueprint = blueprint
	return params, nil
}

func (h *TemplateHandler) UseTemplate(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "неверный формат идентификатора")
		return
	}

	created, svcErr := h.TemplateService.UseTemplate(r.Context(), authUser.UUID, templateID)
	if svcErr != nil {
		handleServiceError(w, svcErr, "HTTP: Ошибка применения шаблона")
		return
	}

	responseWithJSON(w, http.StatusCreated,
		toPayload("message", "задача создана из шаблона"),
		toPayload("task", dto.FromTask(created)),
	)
}

func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	authUser, ok := currentUser(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "неверный формат идентификатора")
		return
	}

	if err := h.TemplateService.DeleteTemplate(r.Context(), authUser.UUID, templateID); err != nil {
		handleServiceError(w, err, "HTTP: Ошибка удаления шаблона")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("message", "шаблон удалён"))
}

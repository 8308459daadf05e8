package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/task"
	"taskflow/internal/models/template"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publicTemplatesLimit = 10

type TemplateService struct {
	templates TemplateRepository
	tasks     TaskRepository
}

func NewTemplateService(templates TemplateRepository, tasks TaskRepository) TemplateService {
	return TemplateService{
		templates: templates,
		tasks:     tasks,
	}
}

type CreateTemplateParams struct {
	Name        string
	Description string
	Blueprint   template.Blueprint
	IsPublic    bool
}

func (s *TemplateService) CreateTemplate(ctx context.Context, userID uuid.UUID, params CreateTemplateParams) (*template.Template, error) {
	newTemplate := &template.Template{
		UUID:        uuid.New(),
		UserUUID:    userID,
		Name:        strings.TrimSpace(params.Name),
		Description: strings.TrimSpace(params.Description),
		Blueprint:   params.Blueprint,
		IsPublic:    params.IsPublic,
		CreatedAt:   time.Now(),
	}

	if newTemplate.Blueprint.Priority == "" {
		newTemplate.Blueprint.Priority = task.PriorityMedium
	}
	if newTemplate.Blueprint.Category == "" {
		newTemplate.Blueprint.Category = task.CategoryOther
	}
	if newTemplate.Blueprint.Tags == nil {
		newTemplate.Blueprint.Tags = []string{}
	}
	if newTemplate.Blueprint.Subtasks == nil {
		newTemplate.Blueprint.Subtasks = []string{}
	}

	if err := s.templates.CreateTemplate(ctx, newTemplate); err != nil {
		return nil, fmt.Errorf("создание шаблона: %w", err)
	}
	return newTemplate, nil
}

// ListTemplates возвращает свои шаблоны и до десяти самых используемых
// публичных шаблонов других пользователей
func (s *TemplateService) ListTemplates(ctx context.Context, userID uuid.UUID) (own, public []*template.Template, err error) {
	own, err = s.templates.ListTemplatesByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("получение шаблонов: %w", err)
	}

	public, err = s.templates.ListPublicTemplates(ctx, userID, publicTemplatesLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("получение публичных шаблонов: %w", err)
	}

	return own, public, nil
}

// UseTemplate создаёт pending-задачу из заготовки и увеличивает счётчик
// использований. Доступны свои и публичные шаблоны
func (s *TemplateService) UseTemplate(ctx context.Context, userID, templateID uuid.UUID) (*task.Task, error) {
	tmpl, err := s.templates.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Шаблон не найден", zap.String("target_id", templateID.String()))
			return nil, NewNotFound("шаблон", templateID.String())
		}
		return nil, fmt.Errorf("получение шаблона: %w", err)
	}

	if tmpl.UserUUID != userID && !tmpl.IsPublic {
		logger.Info("Service: Шаблон недоступен пользователю", zap.String("target_id", templateID.String()))
		return nil, NewNotFound("шаблон", templateID.String())
	}

	now := time.Now()
	subtasks := make([]task.Subtask, 0, len(tmpl.Blueprint.Subtasks))
	for _, title := range tmpl.Blueprint.Subtasks {
		subtasks = append(subtasks, task.Subtask{Title: title, CreatedAt: now})
	}

	newTask := &task.Task{
		UUID:          uuid.New(),
		UserUUID:      userID,
		Title:         tmpl.Blueprint.Title,
		Description:   tmpl.Blueprint.Description,
		Status:        task.StatusPending,
		Priority:      tmpl.Blueprint.Priority,
		Category:      tmpl.Blueprint.Category,
		Tags:          append([]string{}, tmpl.Blueprint.Tags...),
		EstimatedTime: tmpl.Blueprint.EstimatedTime,
		Subtasks:      subtasks,
		CreatedAt:     now,
	}

	if err := s.tasks.CreateTask(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи из шаблона: %w", err)
	}

	tmpl.UsageCount++
	if err := s.templates.UpdateTemplate(ctx, tmpl); err != nil {
		// задача уже создана, счётчик использования не критичен
		logger.Warn("Service: Не удалось обновить счётчик шаблона",
			zap.String("target_id", templateID.String()),
			zap.Error(err))
	}

	return newTask, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error {
	err := s.templates.DeleteTemplate(ctx, userID, templateID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Шаблон не найден", zap.String("target_id", templateID.String()))
			return NewNotFound("шаблон", templateID.String())
		}
		return fmt.Errorf("удаление шаблона: %w", err)
	}
	return nil
}

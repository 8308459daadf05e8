package handlers

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/handlers/dto"
	"taskflow/internal/models/task"
	"taskflow/internal/service"
)

// валидация полей целиком живёт на границе: сервис получает уже
// проверенные значения

const maxTitleLen = 100
const maxDescriptionLen = 500
const maxTagLen = 20
const minEstimatedTime = 1
const maxEstimatedTime = 1440

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func validateTitle(title string) *service.BusinessError {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return service.NewValidationError("title", "не может быть пустым")
	}
	if len([]rune(trimmed)) > maxTitleLen {
		return service.NewValidationError("title", "длиннее 100 символов")
	}
	return nil
}

func validateDescription(description string) *service.BusinessError {
	if len([]rune(description)) > maxDescriptionLen {
		return service.NewValidationError("description", "длиннее 500 символов")
	}
	return nil
}

func validateStatus(raw string) (task.Status, *service.BusinessError) {
	status := task.Status(raw)
	if !status.Valid() {
		return "", service.NewValidationError("status", "допустимы pending, in progress, completed")
	}
	return status, nil
}

func validatePriority(raw string) (task.Priority, *service.BusinessError) {
	priority := task.Priority(raw)
	if !priority.Valid() {
		return "", service.NewValidationError("priority", "допустимы low, medium, high")
	}
	return priority, nil
}

func validateCategory(raw string) (task.Category, *service.BusinessError) {
	category := task.Category(raw)
	if !category.Valid() {
		return "", service.NewValidationError("category", "категория не из списка")
	}
	return category, nil
}

func validateTags(tags []string) *service.BusinessError {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return service.NewValidationError("tags", "тег не может быть пустым")
		}
		if len([]rune(tag)) > maxTagLen {
			return service.NewValidationError("tags", "тег длиннее 20 символов")
		}
	}
	return nil
}

// срок проверяется только в момент установки: исторические задачи
// просрочиваются естественным образом
func validateDueDate(dueDate *time.Time) *service.BusinessError {
	if dueDate == nil {
		return nil
	}
	if dueDate.Before(time.Now()) {
		return service.NewValidationError("due_date", "не может быть в прошлом")
	}
	return nil
}

func validateEstimatedTime(minutes *int) *service.BusinessError {
	if minutes == nil {
		return nil
	}
	if *minutes < minEstimatedTime || *minutes > maxEstimatedTime {
		return service.NewValidationError("estimated_time", "от 1 до 1440 минут")
	}
	return nil
}

func validateSubtasks(subtasks []dto.SubtaskRequest) *service.BusinessError {
	for _, sub := range subtasks {
		if strings.TrimSpace(sub.Title) == "" {
			return service.NewValidationError("subtasks", "название подзадачи не может быть пустым")
		}
		if len([]rune(sub.Title)) > maxTitleLen {
			return service.NewValidationError("subtasks", "название подзадачи длиннее 100 символов")
		}
	}
	return nil
}

func validateSort(field, order string) (task.Sort, *service.BusinessError) {
	if field == "" {
		return task.DefaultSort(), nil
	}
	if !task.SortFields[field] {
		return task.Sort{}, service.NewValidationError("sort_by", "сортировка по этому полю не поддерживается")
	}

	switch order {
	case "", "desc":
		return task.Sort{Field: field, Desc: true}, nil
	case "asc":
		return task.Sort{Field: field, Desc: false}, nil
	default:
		return task.Sort{}, service.NewValidationError("order", "допустимы asc и desc")
	}
}

func toSubtasks(requests []dto.SubtaskRequest) []task.Subtask {
	subtasks := make([]task.Subtask, 0, len(requests))
	now := time.Now()
	for _, sub := range requests {
		subtasks = append(subtasks, task.Subtask{
			Title:     strings.TrimSpace(sub.Title),
			Completed: sub.Completed,
			CreatedAt: now,
		})
	}
	return subtasks
}

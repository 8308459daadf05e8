package task

import (
	"time"
)

// TaskOption — функция частичного обновления: применяется только к тем
// полям, которые явно пришли в запросе
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category Category) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithTags(tags []string) TaskOption {
	return func(task *Task) {
		task.Tags = tags
	}
}

// nil снимает срок у задачи
func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithEstimatedTime(minutes *int) TaskOption {
	return func(task *Task) {
		task.EstimatedTime = minutes
	}
}

func WithSubtasks(subtasks []Subtask) TaskOption {
	return func(task *Task) {
		task.Subtasks = subtasks
	}
}

package template

import (
	"time"

	"taskflow/internal/models/task"

	"github.com/google/uuid"
)

// Template — заготовка задачи. Публичные шаблоны видны всем пользователям,
// приватные только владельцу.
type Template struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	UserUUID    uuid.UUID  `json:"user_uuid" db:"user_uuid"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Blueprint   Blueprint  `json:"blueprint" db:"blueprint"`
	IsPublic    bool       `json:"is_public" db:"is_public"`
	UsageCount  int        `json:"usage_count" db:"usage_count"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Blueprint — поля будущей задачи
type Blueprint struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Priority      task.Priority `json:"priority"`
	Category      task.Category `json:"category"`
	Tags          []string      `json:"tags"`
	EstimatedTime *int          `json:"estimated_time,omitempty"`
	Subtasks      []string      `json:"subtasks"`
}

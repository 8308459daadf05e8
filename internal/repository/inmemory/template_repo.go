package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskflow/internal/models/template"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
)

type TemplateStorage struct {
	storage map[uuid.UUID]*template.Template
	mtx     *sync.RWMutex
}

func NewTemplateStorage() *TemplateStorage {
	return &TemplateStorage{
		storage: make(map[uuid.UUID]*template.Template),
		mtx:     &sync.RWMutex{},
	}
}

func (s *TemplateStorage) CreateTemplate(ctx context.Context, tmpl *template.Template) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	copied := *tmpl
	s.storage[copied.UUID] = &copied
	return nil
}

func (s *TemplateStorage) UpdateTemplate(ctx context.Context, tmpl *template.Template) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[tmpl.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	tmpl.UpdatedAt = &now

	copied := *tmpl
	s.storage[copied.UUID] = &copied
	return nil
}

// шаблон доступен владельцу, а публичный — любому пользователю
func (s *TemplateStorage) GetTemplateByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tmpl, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	copied := *tmpl
	return &copied, nil
}

func (s *TemplateStorage) ListTemplatesByUser(ctx context.Context, userID uuid.UUID) ([]*template.Template, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*template.Template{}
	for _, tmpl := range s.storage {
		if tmpl.UserUUID != userID {
			continue
		}
		copied := *tmpl
		res = append(res, &copied)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *TemplateStorage) ListPublicTemplates(ctx context.Context, excludeUser uuid.UUID, limit int) ([]*template.Template, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*template.Template{}
	for _, tmpl := range s.storage {
		if !tmpl.IsPublic || tmpl.UserUUID == excludeUser {
			continue
		}
		copied := *tmpl
		res = append(res, &copied)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].UsageCount > res[j].UsageCount
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *TemplateStorage) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tmpl, ok := s.storage[id]
	if !ok || tmpl.UserUUID != userID {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	return nil
}

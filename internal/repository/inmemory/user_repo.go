package inmemory

import (
	"context"
	"sync"

	"taskflow/internal/models/user"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	storage map[uuid.UUID]*user.User
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[uuid.UUID]*user.User),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	copied := *userToCreate
	s.storage[copied.UUID] = &copied
	return nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	userToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	copied := *userToGet
	return &copied, nil
}

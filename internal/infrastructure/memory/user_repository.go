package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo operadores en memoria; la clave es el username en minúsculas.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewUserRepository() *UserRepo {
	return &UserRepo{users: make(map[string]entity.User)}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	key := strings.ToLower(user.Username)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[key]; exists {
		return domain.ErrDuplicate
	}
	r.users[key] = *user
	return nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].Username < list[j].Username
	})
	return list, nil
}

func (r *UserRepo) Delete(_ context.Context, username string) (bool, error) {
	key := strings.ToLower(username)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key]; !ok {
		return false, nil
	}
	delete(r.users, key)
	return true, nil
}

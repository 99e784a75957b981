package usecase

import (
	"context"

	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

// UserUseCase gestión de usuarios limitados por el superusuario.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List todos los operadores.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// CreateLimited alta de un usuario con rol operator. domain.ErrDuplicate si ya existe.
func (uc *UserUseCase) CreateLimited(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	existing, err := uc.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	user, err := auth.NewUser(in.Username, in.Password, entity.RoleOperator)
	if err != nil {
		return nil, err
	}
	if user.Username == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := auth.ToUserResponse(user)
	return &out, nil
}

// Remove baja de un usuario limitado. Los admin no se eliminan (domain.ErrForbidden).
func (uc *UserUseCase) Remove(ctx context.Context, username string) error {
	user, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin {
		return domain.ErrForbidden
	}
	removed, err := uc.repo.Delete(ctx, user.Username)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrUserNotFound
	}
	return nil
}

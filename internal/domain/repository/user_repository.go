package repository

import (
	"context"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para los operadores de la consola (DIP).
// Los nombres de usuario se comparan sin distinguir mayúsculas.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, username string) (bool, error)
}

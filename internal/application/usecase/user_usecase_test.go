package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/application/usecase"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
)

func newUsers(t *testing.T) *usecase.UserUseCase {
	t.Helper()
	repo := memory.NewUserRepository()
	admin, err := auth.NewUser("admin", "admin-secreto", entity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), admin))
	return usecase.NewUserUseCase(repo)
}

func TestUserUseCase_AltaYBajaDeLimitado(t *testing.T) {
	uc := newUsers(t)
	ctx := context.Background()

	out, err := uc.CreateLimited(ctx, dto.CreateUserRequest{Username: "caixa", Password: "caixa123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOperator, out.Role)

	_, err = uc.CreateLimited(ctx, dto.CreateUserRequest{Username: "CAIXA", Password: "outra123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, uc.Remove(ctx, "Caixa"))
	assert.ErrorIs(t, uc.Remove(ctx, "caixa"), domain.ErrUserNotFound)
}

func TestUserUseCase_NoSeEliminaAlAdmin(t *testing.T) {
	uc := newUsers(t)
	assert.ErrorIs(t, uc.Remove(context.Background(), "admin"), domain.ErrForbidden)
}

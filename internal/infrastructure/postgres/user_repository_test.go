package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/postgres"
)

func TestUserRepo_CRUD(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	_, err := pool.Exec(ctx, `DELETE FROM users WHERE lower(username) = 'pg-operador'`)
	require.NoError(t, err)
	repo := postgres.NewUserRepository(pool)

	u := &entity.User{Username: "PG-Operador", PasswordHash: "hash", Role: entity.RoleOperator, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), domain.ErrDuplicate)

	found, err := repo.FindByUsername(ctx, "pg-operador")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.RoleOperator, found.Role)

	removed, err := repo.Delete(ctx, "PG-OPERADOR")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "pg-operador")
	require.NoError(t, err)
	assert.False(t, removed)
}

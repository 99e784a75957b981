package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
)

func TestStockRepo_SetQuantity(t *testing.T) {
	repo := memory.NewStockRepository(memory.DemoItems()...)
	ctx := context.Background()

	ok, err := repo.SetQuantity(ctx, "TENIS-X", 50)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetQuantity(ctx, "NO-EXISTE", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	it, err := repo.GetBySKU(ctx, "TENIS-X")
	require.NoError(t, err)
	assert.Equal(t, 50, it.Quantity)
	assert.Equal(t, "9988", it.RemoteItemID)
}

func TestStockRepo_FetchAllOrdenadoYCopia(t *testing.T) {
	repo := memory.NewStockRepository(memory.DemoItems()...)
	ctx := context.Background()

	list, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"BONE-VERMELHO", "CAMISA-AZUL", "TENIS-X"}, []string{list[0].SKU, list[1].SKU, list[2].SKU})

	list[0].Quantity = 999
	again, _ := repo.GetBySKU(ctx, "BONE-VERMELHO")
	assert.Equal(t, 0, again.Quantity)
}

func TestStockRepo_Create(t *testing.T) {
	repo := memory.NewStockRepository(memory.DemoItems()...)
	ctx := context.Background()

	item := &entity.StockItem{SKU: "MEIA", Name: "Meia", Quantity: 4}
	require.NoError(t, repo.Create(ctx, item))
	assert.False(t, item.UpdatedAt.IsZero())
	assert.ErrorIs(t, repo.Create(ctx, item), domain.ErrDuplicate)
}

func TestUserRepo_SinDistinguirMayusculas(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "Loja", Role: entity.RoleOperator}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{Username: "loja"}), domain.ErrDuplicate)

	u, err := repo.FindByUsername(ctx, "LOJA")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Loja", u.Username)

	ok, err := repo.Delete(ctx, "loja")
	require.NoError(t, err)
	assert.True(t, ok)
	list, _ := repo.List(ctx)
	assert.Empty(t, list)
}

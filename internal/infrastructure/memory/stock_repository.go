// Package memory almacenes en proceso para desarrollo (DB_DRIVER=memory) y tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo inventario en memoria protegido por mutex.
type StockRepo struct {
	mu    sync.RWMutex
	items map[string]entity.StockItem
	now   func() time.Time
}

// NewStockRepository crea el almacén con las filas iniciales.
func NewStockRepository(seed ...entity.StockItem) *StockRepo {
	r := &StockRepo{items: make(map[string]entity.StockItem, len(seed)), now: time.Now}
	for _, it := range seed {
		if it.UpdatedAt.IsZero() {
			it.UpdatedAt = r.now()
		}
		r.items[it.SKU] = it
	}
	return r
}

// DemoItems catálogo de ejemplo para DB_DRIVER=memory.
func DemoItems() []entity.StockItem {
	return []entity.StockItem{
		{SKU: "TENIS-X", Name: "Tênis X", Quantity: 10, RemoteItemID: "9988"},
		{SKU: "BONE-VERMELHO", Name: "Boné Vermelho", Quantity: 0},
		{SKU: "CAMISA-AZUL", Name: "Camisa Azul", Quantity: 25, RemoteItemID: "10243"},
	}
}

func (r *StockRepo) FetchAll(_ context.Context) ([]entity.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *StockRepo) GetBySKU(_ context.Context, sku string) (*entity.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[sku]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *StockRepo) SetQuantity(_ context.Context, sku string, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[sku]
	if !ok {
		return false, nil
	}
	it.Quantity = qty
	it.UpdatedAt = r.now()
	r.items[sku] = it
	return true, nil
}

func (r *StockRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.SKU]; exists {
		return domain.ErrDuplicate
	}
	item.UpdatedAt = r.now()
	r.items[item.SKU] = *item
	return nil
}

func (r *StockRepo) sorted() []entity.StockItem {
	out := make([]entity.StockItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

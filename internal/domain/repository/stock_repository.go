package repository

import (
	"context"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// StockRepository puerto del almacén local de inventario.
// El almacén serializa las escrituras por fila; el motor de sync no añade bloqueos propios.
type StockRepository interface {
	// FetchAll devuelve todas las filas con su RemoteItemID (LEFT JOIN con el mapeo de plataforma).
	FetchAll(ctx context.Context) ([]entity.StockItem, error)
	// GetBySKU devuelve nil, nil si el SKU no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.StockItem, error)
	// SetQuantity devuelve true solo si exactamente una fila coincidió y fue actualizada.
	SetQuantity(ctx context.Context, sku string, qty int) (bool, error)
	// Create inserta un producto nuevo; ErrDuplicate si el SKU ya existe.
	Create(ctx context.Context, item *entity.StockItem) error
}

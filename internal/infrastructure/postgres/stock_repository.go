package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// selectStock productos con su anuncio Shopee (si existe). COALESCE deja "" para los no vinculados.
const selectStock = `
	SELECT p.sku, p.nome, p.estoque_real, p.preco, COALESCE(m.remote_item_id, ''), p.updated_at
	FROM produtos p
	LEFT JOIN mapeamento_plataforma m ON p.sku = m.produto_sku AND m.plataforma = $1`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// FetchAll lista todos los productos ordenados por SKU.
func (r *StockRepo) FetchAll(ctx context.Context) ([]entity.StockItem, error) {
	return r.list(ctx, selectStock+` ORDER BY p.sku`, entity.PlatformShopee)
}

// GetBySKU obtiene un producto; nil, nil si no existe.
func (r *StockRepo) GetBySKU(ctx context.Context, sku string) (*entity.StockItem, error) {
	var it entity.StockItem
	err := r.q.QueryRow(ctx, selectStock+` WHERE p.sku = $2`, entity.PlatformShopee, sku).Scan(
		&it.SKU, &it.Name, &it.Quantity, &it.Price, &it.RemoteItemID, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &it, nil
}

// SetQuantity fija estoque_real. true solo si se actualizó exactamente una fila.
func (r *StockRepo) SetQuantity(ctx context.Context, sku string, qty int) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE produtos SET estoque_real = $1, updated_at = now() WHERE sku = $2`, qty, sku)
	if err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Create inserta un producto nuevo y, si trae RemoteItemID, su vínculo Shopee en la misma transacción.
// Devuelve domain.ErrDuplicate si el SKU ya existe.
func (r *StockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	return NewTxRunner(r.q).Run(ctx, func(q Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO produtos (sku, nome, preco, estoque_real)
			VALUES ($1, $2, $3, $4)
			RETURNING updated_at`,
			item.SKU, item.Name, item.Price, item.Quantity,
		).Scan(&item.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert product: %w", err)
		}
		if !item.HasRemote() {
			return nil
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO mapeamento_plataforma (produto_sku, plataforma, remote_item_id)
			VALUES ($1, $2, $3)`,
			item.SKU, entity.PlatformShopee, item.RemoteItemID,
		); err != nil {
			return fmt.Errorf("insert platform mapping: %w", err)
		}
		return nil
	})
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]entity.StockItem, 0)
	for rows.Next() {
		var it entity.StockItem
		if err := rows.Scan(&it.SKU, &it.Name, &it.Quantity, &it.Price, &it.RemoteItemID, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Package mysql adaptador del almacén local sobre MySQL, el banco que ya usa la tienda.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/pkg/config"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// erDupEntry código MySQL de clave duplicada.
const erDupEntry = 1062

const selectStock = `
	SELECT p.sku, p.nome, p.estoque_real, p.preco, COALESCE(m.remote_item_id, ''), p.updated_at
	FROM produtos p
	LEFT JOIN mapeamento_plataforma m ON p.sku = m.produto_sku AND m.plataforma = ?`

// Open abre y verifica la conexión. Fuerza parseTime y clientFoundRows aunque el DSN no los traiga:
// SetQuantity depende de que RowsAffected cuente filas encontradas, no modificadas.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	dsnCfg, err := gomysql.ParseDSN(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN mysql: %w", err)
	}
	dsnCfg.ParseTime = true
	dsnCfg.ClientFoundRows = true

	connector, err := gomysql.NewConnector(dsnCfg)
	if err != nil {
		return nil, fmt.Errorf("abrir mysql: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// StockRepo implementación de StockRepository sobre database/sql + go-sql-driver/mysql.
type StockRepo struct {
	db *sql.DB
}

// NewStockRepository construye el adaptador.
func NewStockRepository(db *sql.DB) *StockRepo {
	return &StockRepo{db: db}
}

// FetchAll lista todos los productos ordenados por SKU.
func (r *StockRepo) FetchAll(ctx context.Context) ([]entity.StockItem, error) {
	return r.list(ctx, selectStock+` ORDER BY p.sku`, entity.PlatformShopee)
}

// GetBySKU obtiene un producto; nil, nil si no existe.
func (r *StockRepo) GetBySKU(ctx context.Context, sku string) (*entity.StockItem, error) {
	row := r.db.QueryRowContext(ctx, selectStock+` WHERE p.sku = ?`, entity.PlatformShopee, sku)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query stock item: %w", err)
	}
	return it, nil
}

// SetQuantity fija estoque_real. true solo si exactamente una fila coincidió.
func (r *StockRepo) SetQuantity(ctx context.Context, sku string, qty int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE produtos SET estoque_real = ?, updated_at = NOW() WHERE sku = ?`, qty, sku)
	if err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows == 1, nil
}

// Create inserta un producto nuevo y, si trae RemoteItemID, su vínculo Shopee en la misma transacción.
// domain.ErrDuplicate si el SKU ya existe.
func (r *StockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO produtos (sku, nome, preco, estoque_real, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		item.SKU, item.Name, item.Price, item.Quantity, now,
	)
	if err != nil {
		var myErr *gomysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == erDupEntry {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if item.HasRemote() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mapeamento_plataforma (produto_sku, plataforma, remote_item_id)
			VALUES (?, ?, ?)`,
			item.SKU, entity.PlatformShopee, item.RemoteItemID,
		); err != nil {
			return fmt.Errorf("insert platform mapping: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	item.UpdatedAt = now
	return nil
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]entity.StockItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]entity.StockItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, *it)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*entity.StockItem, error) {
	var it entity.StockItem
	var price decimal.Decimal
	if err := s.Scan(&it.SKU, &it.Name, &it.Quantity, &price, &it.RemoteItemID, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Price = price
	return &it, nil
}

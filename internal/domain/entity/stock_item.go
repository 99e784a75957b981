package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformShopee plataforma usada en la tabla de mapeo producto → anuncio remoto.
const PlatformShopee = "SHOPEE"

// StockItem fila de inventario local con su vínculo (opcional) al anuncio del marketplace.
// RemoteItemID vacío = producto no publicado en el marketplace.
type StockItem struct {
	SKU          string // único, no vacío
	Name         string
	Quantity     int             // estoque real, nunca negativo
	Price        decimal.Decimal // precio de venta (solo altas; el motor de sync no lo usa)
	RemoteItemID string
	UpdatedAt    time.Time
}

// HasRemote indica si el producto está vinculado al marketplace.
func (s StockItem) HasRemote() bool {
	return s.RemoteItemID != ""
}

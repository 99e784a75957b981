package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrailLine línea del rastro de sincronización.
type TrailLine struct {
	At      time.Time `json:"at"`
	State   string    `json:"state,omitempty"`
	Message string    `json:"message"`
}

// StockRowResponse fila de la consola: producto + estado de la última sincronización.
type StockRowResponse struct {
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	RemoteItemID string      `json:"shopee_id,omitempty"`
	Status       string      `json:"status"`
	Syncing      bool        `json:"syncing"`
	RunID        string      `json:"run_id,omitempty"`
	Trail        []TrailLine `json:"trail,omitempty"`
}

// StockListResponse listado de filas.
type StockListResponse struct {
	Items []StockRowResponse `json:"items"`
	Total int                `json:"total"`
}

// CreateProductRequest alta de producto (solo administradores).
type CreateProductRequest struct {
	SKU      string          `json:"sku" validate:"required,min=1,max=100"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=0"`
	// RemoteItemID item_id del anuncio Shopee; vacío = producto solo local.
	RemoteItemID string `json:"shopee_id" validate:"omitempty,number,max=64"`
}

// ProductResponse producto recién creado.
type ProductResponse struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	RemoteItemID string          `json:"shopee_id,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SyncStockRequest nueva cantidad para un SKU. Puntero para distinguir ausente de cero.
type SyncStockRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// SyncAcceptedResponse la corrida quedó en marcha; el progreso se consulta en GET /api/stock/:sku.
type SyncAcceptedResponse struct {
	RunID    string `json:"run_id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

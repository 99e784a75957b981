package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stock-sync/internal/application/board"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	syncstatus "github.com/jhoicas/stock-sync/internal/domain/stocksync"
)

// StockBoard estado visible de la consola (board.Board).
type StockBoard interface {
	Load(ctx context.Context, items []entity.StockItem) error
	Snapshot(ctx context.Context) ([]board.Row, error)
	Row(ctx context.Context, sku string) (board.Row, bool, error)
}

// SyncSubmitter lanza corridas de sincronización (stocksync.Dispatcher).
type SyncSubmitter interface {
	Submit(ctx context.Context, req entity.SyncRequest) (string, error)
}

// StockUseCase consulta, alta de productos y pedidos de sincronización.
type StockUseCase struct {
	repo   repository.StockRepository
	board  StockBoard
	syncer SyncSubmitter
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRepository, b StockBoard, syncer SyncSubmitter) *StockUseCase {
	return &StockUseCase{repo: repo, board: b, syncer: syncer}
}

// Refresh relee el almacén local y recarga la consola.
func (uc *StockUseCase) Refresh(ctx context.Context) (*dto.StockListResponse, error) {
	items, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.board.Load(ctx, items); err != nil {
		return nil, err
	}
	return uc.List(ctx)
}

// List filas de la consola con su estado actual.
func (uc *StockUseCase) List(ctx context.Context) (*dto.StockListResponse, error) {
	rows, err := uc.board.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return toStockList(rows, false), nil
}

// Search filtra por SKU o nombre sin distinguir mayúsculas ni acentos ("tenis" encuentra "Tênis").
// Término vacío = List.
func (uc *StockUseCase) Search(ctx context.Context, term string) (*dto.StockListResponse, error) {
	needle := fold(strings.TrimSpace(term))
	if needle == "" {
		return uc.List(ctx)
	}
	rows, err := uc.board.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	matched := rows[:0]
	for _, r := range rows {
		if strings.Contains(fold(r.SKU), needle) || strings.Contains(fold(r.Name), needle) {
			matched = append(matched, r)
		}
	}
	return toStockList(matched, false), nil
}

// Get fila de un SKU con su rastro completo. domain.ErrNotFound si no está cargado.
func (uc *StockUseCase) Get(ctx context.Context, sku string) (*dto.StockRowResponse, error) {
	row, ok, err := uc.board.Row(ctx, sku)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := toStockRow(row, true)
	return &out, nil
}

// Create da de alta un producto (con o sin vínculo Shopee) y recarga la consola. domain.ErrDuplicate si el SKU existe.
func (uc *StockUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Quantity < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item := &entity.StockItem{
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Quantity:     in.Quantity,
		Price:        in.Price,
		RemoteItemID: strings.TrimSpace(in.RemoteItemID),
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	if _, err := uc.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("producto creado pero la consola no se recargó: %w", err)
	}
	return &dto.ProductResponse{
		SKU:          item.SKU,
		Name:         item.Name,
		Price:        item.Price,
		Quantity:     item.Quantity,
		RemoteItemID: item.RemoteItemID,
		UpdatedAt:    item.UpdatedAt,
	}, nil
}

// RequestSync lee el vínculo actual del SKU y lanza la corrida en segundo plano.
// runCtx gobierna la corrida hasta el commit local; no usar el contexto de la petición HTTP.
// Errores: domain.ErrNotFound, domain.ErrValidation, domain.ErrConcurrentUpdate.
func (uc *StockUseCase) RequestSync(runCtx context.Context, sku string, qty int) (*dto.SyncAcceptedResponse, error) {
	item, err := uc.repo.GetBySKU(runCtx, sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	runID, err := uc.syncer.Submit(runCtx, entity.SyncRequest{Target: *item, NewQuantity: qty})
	if err != nil {
		return nil, err
	}
	return &dto.SyncAcceptedResponse{
		RunID:    runID,
		SKU:      item.SKU,
		Quantity: qty,
		Status:   syncstatus.LabelPending,
	}, nil
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold minúsculas sin marcas diacríticas.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func toStockList(rows []board.Row, withTrail bool) *dto.StockListResponse {
	items := make([]dto.StockRowResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toStockRow(r, withTrail))
	}
	return &dto.StockListResponse{Items: items, Total: len(items)}
}

func toStockRow(r board.Row, withTrail bool) dto.StockRowResponse {
	out := dto.StockRowResponse{
		SKU:          r.SKU,
		Name:         r.Name,
		Quantity:     r.Quantity,
		RemoteItemID: r.RemoteItemID,
		Status:       r.Status,
		Syncing:      r.Syncing,
		RunID:        r.RunID,
	}
	if withTrail {
		out.Trail = make([]dto.TrailLine, 0, len(r.Trail))
		for _, l := range r.Trail {
			out.Trail = append(out.Trail, dto.TrailLine{At: l.At, State: l.State, Message: l.Message})
		}
	}
	return out
}

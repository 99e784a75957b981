// Package board mantiene el estado visible de la consola: una fila por SKU con su estado y su rastro.
// Solo la goroutine de Run muta las filas; el resto habla con ella por canales.
package board

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	syncstatus "github.com/jhoicas/stock-sync/internal/domain/stocksync"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// ErrStopped el bucle ya no corre (Run terminó).
var ErrStopped = errors.New("board detenido")

// maxTrail líneas de rastro conservadas por fila.
const maxTrail = 100

var _ stocksync.EventSink = (*Board)(nil)

// Row fila de la consola. Copia por valor: modificarla no afecta al Board.
type Row struct {
	SKU          string
	Name         string
	Quantity     int
	RemoteItemID string
	Status       string
	State        string
	RunID        string
	Syncing      bool
	Trail        []entity.LogLine
}

type snapshotReq struct {
	sku   string // vacío = todas las filas
	reply chan []Row
}

type loadReq struct {
	items []entity.StockItem
	done  chan struct{}
}

// Board dueño de las filas. Publish, Load, Snapshot y Row son seguros desde cualquier goroutine.
type Board struct {
	events    chan stocksync.Event
	snapshots chan snapshotReq
	loads     chan loadReq
	stopped   chan struct{}
	log       *logger.Logger

	// Estado propiedad exclusiva de Run.
	rows  map[string]*Row
	order []string
}

// New crea el Board. buffer tamaño de la cola de eventos pendientes de aplicar.
func New(buffer int, log *logger.Logger) *Board {
	if buffer <= 0 {
		buffer = 64
	}
	return &Board{
		events:    make(chan stocksync.Event, buffer),
		snapshots: make(chan snapshotReq),
		loads:     make(chan loadReq),
		stopped:   make(chan struct{}),
		log:       log,
		rows:      make(map[string]*Row),
	}
}

// Run es el bucle único que aplica eventos y responde lecturas. Termina al cancelar ctx.
func (b *Board) Run(ctx context.Context) error {
	defer close(b.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-b.events:
			b.apply(ev)
		case req := <-b.loads:
			b.load(req.items)
			close(req.done)
		case req := <-b.snapshots:
			req.reply <- b.snapshot(req.sku)
		}
	}
}

// Publish encola el evento de una corrida. Si el bucle ya terminó el evento se descarta.
func (b *Board) Publish(ev stocksync.Event) {
	select {
	case b.events <- ev:
	case <-b.stopped:
		b.log.Debug().Str("run_id", ev.RunID).Str("sku", ev.SKU).Msg("evento descartado: board detenido")
	}
}

// Load reemplaza las filas con los productos leídos del almacén, todas en Pending.
// Las filas con una corrida en curso conservan su estado y su rastro.
func (b *Board) Load(ctx context.Context, items []entity.StockItem) error {
	req := loadReq{items: items, done: make(chan struct{})}
	select {
	case b.loads <- req:
	case <-b.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot copia de todas las filas en el orden de carga.
func (b *Board) Snapshot(ctx context.Context) ([]Row, error) {
	return b.ask(ctx, "")
}

// Row copia de la fila del SKU; false si no existe.
func (b *Board) Row(ctx context.Context, sku string) (Row, bool, error) {
	if sku == "" {
		return Row{}, false, nil
	}
	rows, err := b.ask(ctx, sku)
	if err != nil || len(rows) == 0 {
		return Row{}, false, err
	}
	return rows[0], true, nil
}

func (b *Board) ask(ctx context.Context, sku string) ([]Row, error) {
	req := snapshotReq{sku: sku, reply: make(chan []Row, 1)}
	select {
	case b.snapshots <- req:
	case <-b.stopped:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case rows := <-req.reply:
		return rows, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Board) load(items []entity.StockItem) {
	rows := make(map[string]*Row, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		row := &Row{
			SKU:          it.SKU,
			Name:         it.Name,
			Quantity:     it.Quantity,
			RemoteItemID: it.RemoteItemID,
			Status:       syncstatus.LabelPending,
		}
		if prev, ok := b.rows[it.SKU]; ok && prev.Syncing {
			row.Status, row.State, row.RunID, row.Syncing = prev.Status, prev.State, prev.RunID, true
			row.Trail = prev.Trail
		}
		if _, dup := rows[it.SKU]; !dup {
			order = append(order, it.SKU)
		}
		rows[it.SKU] = row
	}
	b.rows, b.order = rows, order
}

func (b *Board) apply(ev stocksync.Event) {
	row, ok := b.rows[ev.SKU]
	if !ok {
		b.log.Warn().Str("sku", ev.SKU).Str("run_id", ev.RunID).Msg("evento para un SKU que no está en el board")
		return
	}
	row.RunID = ev.RunID
	row.Trail = append(row.Trail, ev.Line)
	if over := len(row.Trail) - maxTrail; over > 0 {
		row.Trail = append([]entity.LogLine(nil), row.Trail[over:]...)
	}
	if ev.Abandoned {
		row.Syncing = false
		return
	}
	row.State = ev.State
	row.Status = ev.Status
	row.Syncing = !ev.Final
	if ev.LocalCommitted {
		row.Quantity = ev.Quantity
	}
}

func (b *Board) snapshot(sku string) []Row {
	if sku != "" {
		row, ok := b.rows[sku]
		if !ok {
			return nil
		}
		return []Row{copyRow(row)}
	}
	out := make([]Row, 0, len(b.order))
	for _, s := range b.order {
		out = append(out, copyRow(b.rows[s]))
	}
	return out
}

func copyRow(r *Row) Row {
	c := *r
	c.Trail = append([]entity.LogLine(nil), r.Trail...)
	return c
}

package stocksync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	syncstatus "github.com/jhoicas/stock-sync/internal/domain/stocksync"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// Event par (estado, línea de log) que la corrida entrega al bucle del caller.
// Final marca el último evento de la corrida; Outcome solo viene en ese evento.
type Event struct {
	RunID          string
	SKU            string
	State          string
	Status         string
	Quantity       int
	LocalCommitted bool
	Line           entity.LogLine
	Final          bool
	Outcome        *entity.SyncOutcome
	Abandoned      bool
}

// EventSink recibe los eventos de las corridas. Publish solo encola: quien aplica el estado
// visible es el bucle propio del caller.
type EventSink interface {
	Publish(ev Event)
}

// releaseTimeout tope para liberar la guardia (Redis) al terminar la corrida.
const releaseTimeout = 5 * time.Second

// Dispatcher lanza cada corrida en su propia goroutine para no bloquear al caller.
// Una sola corrida en curso por SKU; SKUs distintos corren en paralelo.
type Dispatcher struct {
	orch    *Orchestrator
	guard   Guard
	sink    EventSink
	metrics *Metrics
	log     *logger.Logger
	wg      sync.WaitGroup
}

// NewDispatcher construye el dispatcher. metrics puede ser nil.
func NewDispatcher(orch *Orchestrator, guard Guard, sink EventSink, metrics *Metrics, log *logger.Logger) *Dispatcher {
	return &Dispatcher{orch: orch, guard: guard, sink: sink, metrics: metrics, log: log}
}

// Submit valida la petición, reserva el SKU y arranca la corrida en segundo plano.
// Devuelve el RunID, ErrValidation (sin efectos), o ErrConcurrentUpdate si el SKU está ocupado.
// ctx gobierna solo la fase previa al commit local: debe vivir más que la petición HTTP.
func (d *Dispatcher) Submit(ctx context.Context, req entity.SyncRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	if req.RunID == "" {
		req.RunID = uuid.New().String()
	}

	sku := req.Target.SKU
	acquired, err := d.guard.Acquire(ctx, sku, req.RunID)
	if err != nil {
		return "", fmt.Errorf("reservar SKU %s: %w", sku, err)
	}
	if !acquired {
		if d.metrics != nil {
			d.metrics.ConcurrentRejected()
		}
		d.log.Warn().Str("sku", sku).Msg("sincronización rechazada: ya hay una en curso")
		return "", fmt.Errorf("%w: %s", domain.ErrConcurrentUpdate, sku)
	}

	d.wg.Add(1)
	go d.process(ctx, req)
	return req.RunID, nil
}

// Wait bloquea hasta que terminen todas las corridas en curso (apagado ordenado).
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) process(ctx context.Context, req entity.SyncRequest) {
	defer d.wg.Done()
	defer d.release(req.Target.SKU, req.RunID)

	committed := false
	notify := func(state string, line entity.LogLine) {
		if state == entity.SyncStateLocalCommitted {
			committed = true
		}
		if syncstatus.IsTerminal(state) {
			// El evento terminal sale con el Outcome más abajo.
			return
		}
		d.sink.Publish(Event{
			RunID:          req.RunID,
			SKU:            req.Target.SKU,
			State:          state,
			Status:         syncstatus.ProgressLabel(state),
			Quantity:       req.NewQuantity,
			LocalCommitted: committed,
			Line:           line,
		})
	}

	result, err := d.orch.Run(ctx, req, notify)
	if err != nil {
		d.log.Warn().Err(err).Str("run_id", req.RunID).Str("sku", req.Target.SKU).Msg("corrida abandonada")
		d.sink.Publish(Event{
			RunID:     req.RunID,
			SKU:       req.Target.SKU,
			Final:     true,
			Abandoned: true,
			Line:      entity.LogLine{At: time.Now(), Message: "Corrida abandonada sin cambios: " + err.Error()},
		})
		return
	}

	outcome := result.Outcome
	last := result.Trail[len(result.Trail)-1]
	d.sink.Publish(Event{
		RunID:          req.RunID,
		SKU:            req.Target.SKU,
		State:          last.State,
		Status:         syncstatus.Label(outcome.Kind),
		Quantity:       req.NewQuantity,
		LocalCommitted: outcome.LocalCommitted(),
		Line:           last,
		Final:          true,
		Outcome:        &outcome,
	})
}

func (d *Dispatcher) release(sku, runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := d.guard.Release(ctx, sku, runID); err != nil {
		d.log.Error().Err(err).Str("sku", sku).Str("run_id", runID).Msg("no se pudo liberar la guardia del SKU")
	}
}

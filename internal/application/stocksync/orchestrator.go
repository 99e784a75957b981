// Package stocksync orquesta la actualización en dos fases: commit local y luego propagación al marketplace.
package stocksync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// Result lo que devuelve una corrida: resultado, estados recorridos y el rastro, por valor.
type Result struct {
	RunID    string
	SKU      string
	Quantity int
	Outcome  entity.SyncOutcome
	States   []string
	Trail    []entity.LogLine
	Duration time.Duration
}

// TransitionFunc se invoca en cada transición con la línea del rastro recién añadida.
// Se ejecuta en la goroutine de la corrida: no debe tocar estado de presentación directamente.
type TransitionFunc func(state string, line entity.LogLine)

// Orchestrator ejecuta la máquina de estados de una SyncRequest:
//
//	STARTED → LOCAL_COMMITTED | LOCAL_FAILED
//	LOCAL_COMMITTED → LOCAL_ONLY                (sin RemoteItemID)
//	LOCAL_COMMITTED → REMOTE_PENDING → REMOTE_SYNCED | REMOTE_FAILED
//
// Un fallo remoto NO revierte el commit local: la divergencia queda visible como "Remote Error".
type Orchestrator struct {
	store   LocalStore
	remote  RemoteClient
	metrics *Metrics // opcional
	log     *logger.Logger
	now     func() time.Time
}

// NewOrchestrator construye el orquestador. metrics puede ser nil.
func NewOrchestrator(store LocalStore, remote RemoteClient, metrics *Metrics, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		remote:  remote,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// Validate comprueba la petición antes de cualquier efecto. Devuelve ErrValidation.
func Validate(req entity.SyncRequest) error {
	if strings.TrimSpace(req.Target.SKU) == "" {
		return fmt.Errorf("%w: SKU vacío", domain.ErrValidation)
	}
	if req.NewQuantity < 0 {
		return fmt.Errorf("%w: cantidad negativa %d", domain.ErrValidation, req.NewQuantity)
	}
	return nil
}

// run estado mutable de una sola corrida; no sobrevive a Run.
type run struct {
	o      *Orchestrator
	req    entity.SyncRequest
	result Result
	notify TransitionFunc
}

func (r *run) transition(state, msg string) {
	line := entity.LogLine{At: r.o.now(), State: state, Message: msg}
	r.result.States = append(r.result.States, state)
	r.result.Trail = append(r.result.Trail, line)
	r.o.log.Info().
		Str("run_id", r.req.RunID).
		Str("sku", r.req.Target.SKU).
		Str("state", state).
		Msg(msg)
	if r.notify != nil {
		r.notify(state, line)
	}
}

// Run ejecuta la corrida de forma síncrona en la goroutine del caller.
// Solo devuelve error si la petición es inválida (ErrValidation) o si ctx se cancela antes del
// commit local; en ambos casos no hubo ningún efecto. Una vez iniciado el commit la corrida ya no
// es cancelable y siempre termina con un SyncOutcome.
func (o *Orchestrator) Run(ctx context.Context, req entity.SyncRequest, notify TransitionFunc) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("corrida abandonada antes del commit: %w", err)
	}

	started := o.now()
	r := &run{
		o:      o,
		req:    req,
		notify: notify,
		result: Result{RunID: req.RunID, SKU: req.Target.SKU, Quantity: req.NewQuantity},
	}
	r.result.Outcome = r.execute(context.WithoutCancel(ctx))
	r.result.Duration = o.now().Sub(started)

	if o.metrics != nil {
		o.metrics.Observe(r.result.Outcome.Kind, r.result.Duration)
	}
	return r.result, nil
}

func (r *run) execute(ctx context.Context) entity.SyncOutcome {
	sku := r.req.Target.SKU
	qty := r.req.NewQuantity

	r.transition(entity.SyncStateStarted, fmt.Sprintf("--- INICIANDO PROCESO PARA %s ---", sku))

	// 1. Commit local. Cero filas afectadas cuenta como fallo: un no-op silencioso nunca es éxito.
	ok, err := r.o.store.SetQuantity(ctx, sku, qty)
	if err != nil || !ok {
		reason := "SKU no encontrado en el banco local"
		if err != nil {
			reason = fmt.Errorf("%w: %v", domain.ErrLocalStore, err).Error()
		}
		r.transition(entity.SyncStateLocalFailed, fmt.Sprintf("Error al actualizar el banco local (%s). Abortando.", reason))
		return entity.LocalFailed(reason)
	}
	r.transition(entity.SyncStateLocalCommitted, fmt.Sprintf("Banco local actualizado: %s = %d un.", sku, qty))

	// 2. Sin vínculo con el marketplace: estado terminal esperado, no es error.
	if !r.req.Target.HasRemote() {
		r.transition(entity.SyncStateLocalOnly, "Producto no vinculado a Shopee. Solo se actualizó el local.")
		return entity.LocalOnly()
	}

	// 3. Propagación remota: un solo intento, sin rollback local si falla.
	remoteID := r.req.Target.RemoteItemID
	r.transition(entity.SyncStateRemotePending, fmt.Sprintf("Conectando con la API Shopee (Item ID: %s)...", remoteID))

	res, err := r.o.remote.UpdateStock(ctx, remoteID, qty)
	if err != nil {
		reason := remoteReason(err)
		r.transition(entity.SyncStateRemoteFailed,
			fmt.Sprintf("Error Shopee: %s. El stock local (%d) se mantiene.", reason, qty))
		return entity.RemoteFailed(reason)
	}
	r.transition(entity.SyncStateRemoteSynced, fmt.Sprintf("SHOPEE ACTUALIZADA. Msg: %s", res.Message))
	return entity.RemoteSucceeded(res.Message)
}

// remoteReason conserva el motivo del fallo; los timeouts se reportan como "timeout".
func remoteReason(err error) string {
	if errors.Is(err, domain.ErrRemoteTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}

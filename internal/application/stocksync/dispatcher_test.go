package stocksync_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func newDispatcher(store *fakeStore, remote *fakeRemote, sink *recordingSink, metrics *stocksync.Metrics) *stocksync.Dispatcher {
	orch := stocksync.NewOrchestrator(store, remote, metrics, logger.Nop())
	return stocksync.NewDispatcher(orch, stocksync.NewMemoryGuard(), sink, metrics, logger.Nop())
}

func TestSubmit_EventosEnOrdenYFinalConOutcome(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	sink := newRecordingSink()
	d := newDispatcher(store, &fakeRemote{message: "Update success"}, sink, nil)

	runID, err := d.Submit(context.Background(), request("TENIS-X", "9988", 50))
	require.NoError(t, err)
	events := sink.until(runID)
	d.Wait()

	require.Len(t, events, 4)
	assert.Equal(t, entity.SyncStateStarted, events[0].State)
	assert.Equal(t, "Pending", events[0].Status)
	assert.False(t, events[0].LocalCommitted)
	assert.Equal(t, entity.SyncStateLocalCommitted, events[1].State)
	assert.True(t, events[1].LocalCommitted)
	assert.Equal(t, entity.SyncStateRemotePending, events[2].State)

	final := events[3]
	assert.True(t, final.Final)
	assert.Equal(t, entity.SyncStateRemoteSynced, final.State)
	assert.Equal(t, "Synchronized", final.Status)
	assert.Equal(t, 50, final.Quantity)
	require.NotNil(t, final.Outcome)
	assert.Equal(t, entity.RemoteSucceeded("Update success"), *final.Outcome)
}

func TestSubmit_GeneraRunIDSiFalta(t *testing.T) {
	store := newFakeStore(map[string]int{"BONE-VERMELHO": 0})
	sink := newRecordingSink()
	d := newDispatcher(store, &fakeRemote{}, sink, nil)

	req := request("BONE-VERMELHO", "", 100)
	req.RunID = ""
	runID, err := d.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	events := sink.until(runID)
	d.Wait()
	assert.Equal(t, "Local Only", events[len(events)-1].Status)
}

func TestSubmit_Validacion_NoReservaNiLlama(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{}
	d := newDispatcher(store, remote, newRecordingSink(), nil)

	_, err := d.Submit(context.Background(), request("TENIS-X", "9988", -3))
	assert.ErrorIs(t, err, domain.ErrValidation)
	d.Wait()
	assert.Zero(t, store.callCount())
	assert.Zero(t, remote.callCount())

	// El SKU sigue libre.
	_, err = d.Submit(context.Background(), request("TENIS-X", "9988", 3))
	assert.NoError(t, err)
	d.Wait()
}

func TestSubmit_MismoSKUEnCurso_Rechaza(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	remote := &fakeRemote{message: "Update success"}
	sink := newRecordingSink()
	reg := prometheus.NewRegistry()
	metrics := stocksync.NewMetrics(reg)
	d := newDispatcher(store, remote, sink, metrics)

	firstID, err := d.Submit(context.Background(), request("TENIS-X", "9988", 50))
	require.NoError(t, err)
	<-store.entered // la primera corrida está dentro del commit local

	second := request("TENIS-X", "9988", 70)
	second.RunID = "segunda"
	_, err = d.Submit(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	close(store.block)
	events := sink.until(firstID)
	d.Wait()

	final := events[len(events)-1]
	require.NotNil(t, final.Outcome)
	assert.Equal(t, entity.OutcomeRemoteSucceeded, final.Outcome.Kind)
	assert.Equal(t, 50, store.quantity("TENIS-X"), "la segunda petición nunca se aplicó")
	assert.Equal(t, 1, store.callCount())
	assert.Equal(t, 1, remote.callCount())
	assert.Equal(t, float64(1), rejectedCount(t, reg))
}

func TestSubmit_SKUDistintosEnParalelo(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10, "BONE-VERMELHO": 0})
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 2)
	sink := newRecordingSink()
	d := newDispatcher(store, &fakeRemote{message: "ok"}, sink, nil)

	_, err := d.Submit(context.Background(), request("TENIS-X", "9988", 50))
	require.NoError(t, err)
	_, err = d.Submit(context.Background(), request("BONE-VERMELHO", "", 100))
	require.NoError(t, err)

	// Ambas corridas llegan al commit sin esperarse entre sí.
	for i := 0; i < 2; i++ {
		select {
		case <-store.entered:
		case <-time.After(2 * time.Second):
			t.Fatal("las corridas de SKUs distintos no corrieron en paralelo")
		}
	}
	close(store.block)
	d.Wait()

	assert.Equal(t, 50, store.quantity("TENIS-X"))
	assert.Equal(t, 100, store.quantity("BONE-VERMELHO"))
}

func TestSubmit_LiberaElSKUAlTerminar(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	sink := newRecordingSink()
	d := newDispatcher(store, &fakeRemote{err: domain.ErrRemoteRejected}, sink, nil)

	firstID, err := d.Submit(context.Background(), request("TENIS-X", "9988", 50))
	require.NoError(t, err)
	events := sink.until(firstID)
	d.Wait()
	assert.Equal(t, "Remote Error", events[len(events)-1].Status)
	assert.True(t, events[len(events)-1].LocalCommitted)

	again := request("TENIS-X", "9988", 60)
	again.RunID = "reintento-manual"
	_, err = d.Submit(context.Background(), again)
	require.NoError(t, err)
	sink.until("reintento-manual")
	d.Wait()
	assert.Equal(t, 60, store.quantity("TENIS-X"))
}

func TestSubmit_ContextoCancelado_EventoAbandonado(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	sink := newRecordingSink()
	d := newDispatcher(store, &fakeRemote{}, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runID, err := d.Submit(ctx, request("TENIS-X", "9988", 50))
	require.NoError(t, err)

	events := sink.until(runID)
	d.Wait()
	require.Len(t, events, 1)
	assert.True(t, events[0].Abandoned)
	assert.Nil(t, events[0].Outcome)
	assert.Zero(t, store.callCount())
}

func rejectedCount(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "stock_sync_concurrent_rejections_total" {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatal("métrica stock_sync_concurrent_rejections_total no registrada")
	return 0
}

func TestSubmit_ReservaYLiberaConElRunID(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	sink := newRecordingSink()
	guard := &recordingGuard{MemoryGuard: stocksync.NewMemoryGuard()}
	orch := stocksync.NewOrchestrator(store, &fakeRemote{message: "ok"}, nil, logger.Nop())
	d := stocksync.NewDispatcher(orch, guard, sink, nil, logger.Nop())

	runID, err := d.Submit(context.Background(), request("TENIS-X", "9988", 50))
	require.NoError(t, err)
	sink.until(runID)
	d.Wait()

	acquired, released := guard.owners()
	assert.Equal(t, []string{runID}, acquired)
	assert.Equal(t, []string{runID}, released)
}

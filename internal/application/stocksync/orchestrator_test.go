package stocksync_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	syncstatus "github.com/jhoicas/stock-sync/internal/domain/stocksync"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func request(sku, remoteID string, qty int) entity.SyncRequest {
	return entity.SyncRequest{
		RunID:       "run-" + sku,
		Target:      entity.StockItem{SKU: sku, Name: sku, RemoteItemID: remoteID},
		NewQuantity: qty,
	}
}

func TestRun_TenisXSincronizado(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{message: "Update success"}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	res, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), nil)
	require.NoError(t, err)

	assert.Equal(t, entity.RemoteSucceeded("Update success"), res.Outcome)
	assert.Equal(t, "Synchronized", syncstatus.Label(res.Outcome.Kind))
	assert.Equal(t, 50, store.quantity("TENIS-X"))
	assert.Equal(t, "9988", remote.lastID)
	assert.Equal(t, 50, remote.lastQty)
	assert.Equal(t, []string{
		entity.SyncStateStarted,
		entity.SyncStateLocalCommitted,
		entity.SyncStateRemotePending,
		entity.SyncStateRemoteSynced,
	}, res.States)
}

func TestRun_BoneVermelhoSoloLocal(t *testing.T) {
	store := newFakeStore(map[string]int{"BONE-VERMELHO": 0})
	remote := &fakeRemote{}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	res, err := orch.Run(context.Background(), request("BONE-VERMELHO", "", 100), nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeLocalOnly, res.Outcome.Kind)
	assert.Equal(t, "Local Only", syncstatus.Label(res.Outcome.Kind))
	assert.Equal(t, 100, store.quantity("BONE-VERMELHO"))
	assert.Zero(t, remote.callCount(), "sin RemoteItemID no se llama al marketplace")
	assert.Equal(t, []string{entity.SyncStateStarted, entity.SyncStateLocalCommitted, entity.SyncStateLocalOnly}, res.States)
}

func TestRun_CantidadNegativa_SinEfectos(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	for _, qty := range []int{-1, -50} {
		_, err := orch.Run(context.Background(), request("TENIS-X", "9988", qty), nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Zero(t, store.callCount())
	assert.Zero(t, remote.callCount())
	assert.Equal(t, 10, store.quantity("TENIS-X"))
}

func TestRun_SKUNoEncontrado_LocalFailedSinLlamadaRemota(t *testing.T) {
	store := newFakeStore(map[string]int{})
	remote := &fakeRemote{message: "Update success"}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	res, err := orch.Run(context.Background(), request("FANTASMA", "9988", 5), nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeLocalFailed, res.Outcome.Kind)
	assert.Equal(t, "Local update failed", syncstatus.Label(res.Outcome.Kind))
	assert.Zero(t, remote.callCount())
	assert.Equal(t, []string{entity.SyncStateStarted, entity.SyncStateLocalFailed}, res.States)
}

func TestRun_ErrorDelAlmacen_LocalFailed(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	store.err = fmt.Errorf("conexión perdida")
	remote := &fakeRemote{}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	res, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeLocalFailed, res.Outcome.Kind)
	assert.Contains(t, res.Outcome.Reason, "conexión perdida")
	assert.False(t, res.Outcome.LocalCommitted())
	assert.Zero(t, remote.callCount())
}

func TestRun_FalloRemoto_NoRevierteElLocal(t *testing.T) {
	for name, remoteErr := range map[string]error{
		"transporte": fmt.Errorf("%w: llamada HTTP fallida: connection refused", domain.ErrRemoteTransport),
		"rechazo":    fmt.Errorf("%w: error_auth Invalid access_token.", domain.ErrRemoteRejected),
	} {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore(map[string]int{"TENIS-X": 10})
			remote := &fakeRemote{err: remoteErr}
			orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

			res, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), nil)
			require.NoError(t, err)

			assert.Equal(t, entity.OutcomeRemoteFailed, res.Outcome.Kind)
			assert.Equal(t, remoteErr.Error(), res.Outcome.Reason)
			assert.Equal(t, "Remote Error", syncstatus.Label(res.Outcome.Kind))
			assert.True(t, res.Outcome.LocalCommitted())
			assert.Equal(t, 50, store.quantity("TENIS-X"), "el commit local se mantiene")
			assert.Equal(t, 1, remote.callCount(), "un solo intento, sin reintentos")
		})
	}
}

func TestRun_TimeoutRemoto_RazonTimeout(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{err: fmt.Errorf("%w: %w", domain.ErrRemoteTransport, domain.ErrRemoteTimeout)}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	res, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.RemoteFailed("timeout"), res.Outcome)
}

func TestRun_UnaLineaPorTransicion(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{message: "Update success"}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	var notified []string
	res, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), func(state string, line entity.LogLine) {
		notified = append(notified, state)
		assert.Equal(t, state, line.State)
	})
	require.NoError(t, err)

	require.Len(t, res.Trail, len(res.States))
	assert.Equal(t, res.States, notified)
	for _, line := range res.Trail {
		assert.False(t, line.At.IsZero(), "cada línea lleva timestamp")
		assert.NotEmpty(t, line.Message)
	}
	assert.Contains(t, res.Trail[len(res.Trail)-1].Message, "Update success")
}

func TestRun_ContextoCanceladoAntesDelCommit(t *testing.T) {
	store := newFakeStore(map[string]int{"TENIS-X": 10})
	remote := &fakeRemote{}
	orch := stocksync.NewOrchestrator(store, remote, nil, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orch.Run(ctx, request("TENIS-X", "9988", 50), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.callCount())
	assert.Zero(t, remote.callCount())
}

func TestRun_RegistraMetricas(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := stocksync.NewMetrics(reg)
	store := newFakeStore(map[string]int{"TENIS-X": 10, "BONE-VERMELHO": 0})
	orch := stocksync.NewOrchestrator(store, &fakeRemote{message: "ok"}, metrics, logger.Nop())

	_, err := orch.Run(context.Background(), request("TENIS-X", "9988", 50), nil)
	require.NoError(t, err)
	_, err = orch.Run(context.Background(), request("BONE-VERMELHO", "", 100), nil)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "stock_sync_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

package stocksync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/stocksync"
)

func TestLabel_CadaVariante(t *testing.T) {
	assert.Equal(t, "Local update failed", stocksync.Label(entity.OutcomeLocalFailed))
	assert.Equal(t, "Local Only", stocksync.Label(entity.OutcomeLocalOnly))
	assert.Equal(t, "Synchronized", stocksync.Label(entity.OutcomeRemoteSucceeded))
	assert.Equal(t, "Remote Error", stocksync.Label(entity.OutcomeRemoteFailed))
}

func TestLabel_SinCorrida_Pending(t *testing.T) {
	assert.Equal(t, "Pending", stocksync.Label(""))
}

func TestProgressLabel_IntermediosSiguenPending(t *testing.T) {
	assert.Equal(t, stocksync.LabelPending, stocksync.ProgressLabel(entity.SyncStateStarted))
	assert.Equal(t, stocksync.LabelPending, stocksync.ProgressLabel(entity.SyncStateLocalCommitted))
	assert.Equal(t, stocksync.LabelPending, stocksync.ProgressLabel(entity.SyncStateRemotePending))
	assert.Equal(t, stocksync.LabelSynced, stocksync.ProgressLabel(entity.SyncStateRemoteSynced))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, stocksync.IsTerminal(entity.SyncStateStarted))
	assert.False(t, stocksync.IsTerminal(entity.SyncStateRemotePending))
	assert.True(t, stocksync.IsTerminal(entity.SyncStateLocalOnly))
	assert.True(t, stocksync.IsTerminal(entity.SyncStateRemoteFailed))
}

// Package stocksync proyecta los resultados de sincronización en las etiquetas que ve el operador.
package stocksync

import "github.com/jhoicas/stock-sync/internal/domain/entity"

// Etiquetas de estado visibles.
const (
	LabelPending     = "Pending"
	LabelLocalFailed = "Local update failed"
	LabelLocalOnly   = "Local Only"
	LabelSynced      = "Synchronized"
	LabelRemoteError = "Remote Error"
)

// Label traduce la variante del resultado a la etiqueta de estado.
// Una variante desconocida (fila sin corrida) se muestra como Pending.
func Label(kind entity.OutcomeKind) string {
	switch kind {
	case entity.OutcomeLocalFailed:
		return LabelLocalFailed
	case entity.OutcomeLocalOnly:
		return LabelLocalOnly
	case entity.OutcomeRemoteSucceeded:
		return LabelSynced
	case entity.OutcomeRemoteFailed:
		return LabelRemoteError
	default:
		return LabelPending
	}
}

// ProgressLabel etiqueta mostrada mientras la corrida está en un estado intermedio.
func ProgressLabel(state string) string {
	switch state {
	case entity.SyncStateLocalFailed:
		return LabelLocalFailed
	case entity.SyncStateLocalOnly:
		return LabelLocalOnly
	case entity.SyncStateRemoteSynced:
		return LabelSynced
	case entity.SyncStateRemoteFailed:
		return LabelRemoteError
	default:
		return LabelPending
	}
}

// IsTerminal indica si el estado cierra la corrida.
func IsTerminal(state string) bool {
	switch state {
	case entity.SyncStateLocalFailed, entity.SyncStateLocalOnly,
		entity.SyncStateRemoteSynced, entity.SyncStateRemoteFailed:
		return true
	}
	return false
}

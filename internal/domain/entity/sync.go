package entity

import (
	"fmt"
	"time"
)

// Estados de una corrida de sincronización. Solo avanzan, nunca retroceden.
const (
	SyncStateStarted        = "STARTED"
	SyncStateLocalCommitted = "LOCAL_COMMITTED"
	SyncStateLocalFailed    = "LOCAL_FAILED"
	SyncStateLocalOnly      = "LOCAL_ONLY"
	SyncStateRemotePending  = "REMOTE_PENDING"
	SyncStateRemoteSynced   = "REMOTE_SYNCED"
	SyncStateRemoteFailed   = "REMOTE_FAILED"
)

// OutcomeKind variante del resultado de una corrida.
type OutcomeKind string

const (
	OutcomeLocalFailed     OutcomeKind = "LocalFailed"
	OutcomeLocalOnly       OutcomeKind = "LocalOnly"
	OutcomeRemoteSucceeded OutcomeKind = "RemoteSucceeded"
	OutcomeRemoteFailed    OutcomeKind = "RemoteFailed"
)

// SyncRequest petición de actualización iniciada por el operador. Se consume una vez.
type SyncRequest struct {
	RunID       string
	Target      StockItem
	NewQuantity int
}

// SyncOutcome resultado etiquetado: Message solo en RemoteSucceeded, Reason en los fallos.
type SyncOutcome struct {
	Kind    OutcomeKind
	Message string
	Reason  string
}

func LocalFailed(reason string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeLocalFailed, Reason: reason}
}

func LocalOnly() SyncOutcome {
	return SyncOutcome{Kind: OutcomeLocalOnly}
}

func RemoteSucceeded(msg string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeRemoteSucceeded, Message: msg}
}

func RemoteFailed(reason string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeRemoteFailed, Reason: reason}
}

// LocalCommitted indica si la cantidad nueva quedó guardada en el almacén local.
func (o SyncOutcome) LocalCommitted() bool {
	return o.Kind != OutcomeLocalFailed && o.Kind != ""
}

func (o SyncOutcome) String() string {
	switch {
	case o.Message != "":
		return fmt.Sprintf("%s{%s}", o.Kind, o.Message)
	case o.Reason != "":
		return fmt.Sprintf("%s{%s}", o.Kind, o.Reason)
	}
	return string(o.Kind)
}

// LogLine línea del rastro de una corrida.
type LogLine struct {
	At      time.Time
	State   string
	Message string
}

func (l LogLine) String() string {
	return fmt.Sprintf("[%s] %s", l.At.Format("15:04:05"), l.Message)
}

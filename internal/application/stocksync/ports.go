package stocksync

import "context"

// LocalStore la parte del almacén local que usa el orquestador.
// SetQuantity devuelve true solo si exactamente una fila fue actualizada.
type LocalStore interface {
	SetQuantity(ctx context.Context, sku string, qty int) (bool, error)
}

// RemoteResult respuesta normalizada de éxito del marketplace.
type RemoteResult struct {
	Message string
}

// RemoteClient puerto de salida hacia el marketplace. Un intento por llamada, sin reintentos.
// Errores: domain.ErrRemoteTransport (la petición no llegó o no se pudo leer la respuesta)
// o domain.ErrRemoteRejected (el marketplace la rechazó); el texto conserva el motivo.
type RemoteClient interface {
	UpdateStock(ctx context.Context, remoteItemID string, qty int) (*RemoteResult, error)
}

// Guard garantiza una sola corrida en curso por SKU.
// Acquire devuelve false si ya hay otra corrida activa para ese SKU. owner es el RunID:
// Release solo libera la reserva si sigue siendo de esa corrida.
type Guard interface {
	Acquire(ctx context.Context, sku, owner string) (bool, error)
	Release(ctx context.Context, sku, owner string) error
}

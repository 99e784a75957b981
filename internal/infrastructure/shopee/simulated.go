package shopee

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// SimulatedMessage mensaje devuelto por el cliente simulado.
const SimulatedMessage = "Update success (SIMULADO)"

var _ stocksync.RemoteClient = (*SimulatedClient)(nil)

// SimulatedClient implementa RemoteClient sin salir a la red (desarrollo sin app aprobada).
// Construye y firma la petición igual que el cliente real, solo que no la envía.
type SimulatedClient struct {
	builder *RequestBuilder
	latency time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// NewSimulatedClient latency simula el tiempo de red (0 en tests).
func NewSimulatedClient(builder *RequestBuilder, latency time.Duration, log *logger.Logger) *SimulatedClient {
	return &SimulatedClient{builder: builder, latency: latency, log: log, now: time.Now}
}

// UpdateStock devuelve éxito tras la latencia configurada.
func (c *SimulatedClient) UpdateStock(ctx context.Context, remoteItemID string, qty int) (*stocksync.RemoteResult, error) {
	signed, err := c.builder.BuildUpdateStock(remoteItemID, qty, c.now())
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("url", signed.FullURL()).
		Int64("item_id", signed.Body.ItemID).
		Int("stock", qty).
		Msg("shopee [SIMULADO]: update_stock no enviado")

	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrRemoteTransport, domain.ErrRemoteTimeout)
		}
	}
	return &stocksync.RemoteResult{Message: SimulatedMessage}, nil
}

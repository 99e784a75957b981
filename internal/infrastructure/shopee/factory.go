package shopee

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
	pkgshopee "github.com/jhoicas/stock-sync/pkg/shopee"
)

// simulatedLatency tiempo de "red" del modo simulado.
const simulatedLatency = time.Second

// NewRemoteClient elige la implementación según SHOPEE_MODE (simulated | live).
func NewRemoteClient(cfg config.MarketplaceConfig, log *logger.Logger) (stocksync.RemoteClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	builder, err := NewRequestBuilder(cfg.Host, Credentials(cfg), cfg.AccessToken)
	if err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case config.ModeLive:
		return NewHTTPClient(builder, cfg.Timeout, log), nil
	case config.ModeSimulated:
		return NewSimulatedClient(builder, simulatedLatency, log), nil
	}
	return nil, fmt.Errorf("%w: SHOPEE_MODE %q", domain.ErrConfiguration, cfg.Mode)
}

// Credentials extrae la identidad de la tienda desde la configuración.
func Credentials(cfg config.MarketplaceConfig) pkgshopee.Credentials {
	return pkgshopee.Credentials{
		PartnerID:  cfg.PartnerID,
		ShopID:     cfg.ShopID,
		PartnerKey: cfg.PartnerKey,
	}
}

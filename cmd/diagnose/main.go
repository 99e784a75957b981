// diagnose verifica la conexión al almacén local y la petición firmada a Shopee.
//
// Uso: go run ./cmd/diagnose [-sku TENIS-X] [-qty 50] [-send]
// Sin -send solo imprime la petición (dry run); con -send la envía por el cliente configurado
// (SHOPEE_MODE=simulated no sale a la red).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/shopee"
	"github.com/jhoicas/stock-sync/internal/infrastructure/storage"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	sku := flag.String("sku", "", "SKU a usar en la petición de prueba (por defecto el primero con vínculo)")
	qty := flag.Int("qty", -1, "cantidad de la petición de prueba (por defecto la cantidad local)")
	send := flag.Bool("send", false, "enviar la petición por el cliente configurado")
	flag.Parse()

	if err := run(*sku, *qty, *send); err != nil {
		fmt.Fprintf(os.Stderr, "\nFALLO: %v\n", err)
		os.Exit(1)
	}
}

func run(sku string, qty int, send bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("------------------------------------------------")
	fmt.Println("DIAGNÓSTICO DE CONEXIÓN")
	fmt.Println("------------------------------------------------")

	fmt.Printf("Almacén %s en %s (base %s)...\n", cfg.DB.Driver, cfg.DB.Host, cfg.DB.DBName)
	stores, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer stores.Close()
	if err := stores.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	fmt.Println("OK conexión establecida")

	items, err := stores.Stock.FetchAll(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("  La tabla existe pero está vacía.")
	} else {
		fmt.Printf("  %d productos:\n", len(items))
		for _, it := range items {
			remote := it.RemoteItemID
			if remote == "" {
				remote = "-"
			}
			fmt.Printf("  SKU: %-15s | Stock: %-5d | Shopee: %-12s | %s\n", it.SKU, it.Quantity, remote, it.Name)
		}
	}

	fmt.Println()
	fmt.Printf("Shopee (%s) en %q\n", cfg.Marketplace.Mode, cfg.Marketplace.Host)
	if err := cfg.Marketplace.Validate(); err != nil {
		return err
	}
	target, err := pickTarget(items, sku)
	if err != nil {
		return err
	}
	if qty < 0 {
		qty = target.Quantity
	}

	builder, err := shopee.NewRequestBuilder(cfg.Marketplace.Host, shopee.Credentials(cfg.Marketplace), cfg.Marketplace.AccessToken)
	if err != nil {
		return err
	}
	signed, err := builder.BuildUpdateStock(target.RemoteItemID, qty, time.Now())
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(signed.Body, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("  POST %s\n  %s\n", signed.FullURL(), body)

	if !send {
		fmt.Println("\nDry run: usar -send para enviar la petición.")
		return nil
	}

	remote, err := shopee.NewRemoteClient(cfg.Marketplace, log)
	if err != nil {
		return err
	}
	res, err := remote.UpdateStock(ctx, target.RemoteItemID, qty)
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, domain.ErrRemoteTimeout):
			reason = "la API no respondió a tiempo"
		case errors.Is(err, domain.ErrRemoteTransport):
			reason = "la petición no llegó a la API"
		case errors.Is(err, domain.ErrRemoteRejected):
			reason = "la API rechazó la petición"
		default:
			reason = "error inesperado"
		}
		return fmt.Errorf("%s: %w", reason, err)
	}
	fmt.Printf("\nOK respuesta de Shopee: %s\n", res.Message)
	return nil
}

// pickTarget el SKU pedido o el primero con vínculo remoto.
func pickTarget(items []entity.StockItem, sku string) (entity.StockItem, error) {
	for _, it := range items {
		if sku != "" && strings.EqualFold(it.SKU, sku) {
			if !it.HasRemote() {
				return it, fmt.Errorf("%w: %s no tiene vínculo con Shopee", domain.ErrValidation, it.SKU)
			}
			return it, nil
		}
		if sku == "" && it.HasRemote() {
			return it, nil
		}
	}
	if sku != "" {
		return entity.StockItem{}, fmt.Errorf("%w: SKU %s", domain.ErrNotFound, sku)
	}
	return entity.StockItem{}, errors.New("ningún producto tiene vínculo con Shopee")
}

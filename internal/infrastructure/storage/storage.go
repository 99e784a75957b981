// Package storage abre el almacén local según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
	"github.com/jhoicas/stock-sync/internal/infrastructure/mysql"
	"github.com/jhoicas/stock-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// Stores repositorios abiertos. Close libera las conexiones.
type Stores struct {
	Driver string
	Stock  repository.StockRepository
	Users  repository.UserRepository
	Ping   func(ctx context.Context) error
	Close  func()
}

// Open conecta el driver configurado y aplica el schema.
// Con mysql y memory los operadores viven en memoria (se siembran al arrancar).
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Driver: cfg.Driver,
			Stock:  postgres.NewStockRepository(pool),
			Users:  postgres.NewUserRepository(pool),
			Ping:   pool.Ping,
			Close:  pool.Close,
		}, nil

	case config.DriverMySQL:
		db, err := mysql.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a MySQL: %w", err)
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Stores{
			Driver: cfg.Driver,
			Stock:  mysql.NewStockRepository(db),
			Users:  memory.NewUserRepository(),
			Ping:   db.PingContext,
			Close: func() {
				if err := db.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar MySQL")
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria con datos de demostración; los cambios se pierden al salir")
		return &Stores{
			Driver: cfg.Driver,
			Stock:  memory.NewStockRepository(memory.DemoItems()...),
			Users:  memory.NewUserRepository(),
			Ping:   func(context.Context) error { return nil },
			Close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido %q (usar postgres|mysql|memory)", cfg.Driver)
}

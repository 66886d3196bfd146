package driver

import (
	"fmt"
	"time"

	"github.com/fekuna/frameshop-storefront/config"
	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	pgbackend "github.com/fekuna/frameshop-storefront/internal/backend/postgres"
	"github.com/fekuna/frameshop-storefront/internal/backend/rest"
	"github.com/fekuna/frameshop-storefront/pkg/database/postgres"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"go.uber.org/zap"
)

const (
	Rest     = "rest"
	Postgres = "postgres"
	Memory   = "memory"
)

// Open builds the backend client selected by cfg.Backend.Driver.
func Open(cfg *config.Config, log logger.ZapLogger) (backend.Client, error) {
	switch cfg.Backend.Driver {
	case Rest:
		if cfg.Backend.URL == "" {
			return nil, fmt.Errorf("backend driver %q requires BACKEND_URL", Rest)
		}
		log.Info("Using REST backend", zap.String("url", cfg.Backend.URL), zap.String("schema", cfg.Backend.Schema))
		return rest.New(rest.Config{
			BaseURL: cfg.Backend.URL,
			APIKey:  cfg.Backend.APIKey,
			Schema:  cfg.Backend.Schema,
			Timeout: cfg.Backend.Timeout,
		}, nil, log), nil

	case Postgres:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return pgbackend.NewClient(db), nil

	case Memory, "":
		log.Warn("Using in-memory backend seeded with demo catalog; data is lost on restart")
		return memory.NewWithFixture(), nil
	}
	return nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
}

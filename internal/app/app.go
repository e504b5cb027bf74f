package app

import (
	"context"
	"database/sql"
	"dispatch-simulation-service/internal/adapters/cache"
	"dispatch-simulation-service/internal/adapters/publisher"
	"dispatch-simulation-service/internal/adapters/repositories"
	"dispatch-simulation-service/internal/adapters/routing"
	"dispatch-simulation-service/internal/config"
	"dispatch-simulation-service/internal/platform/db"
	"dispatch-simulation-service/internal/ports"
	"dispatch-simulation-service/internal/services"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// App holds the concrete adapters behind every port. cmd/server and
// cmd/simulate build one each.
type App struct {
	Config     config.Config
	Projects   ports.ProjectRepository
	Results    ports.ResultRepository
	Dispatcher *services.Dispatcher

	// Progress is nil when AMQP_URL is unset.
	Progress *publisher.AMQPProgressPublisher

	db    *sql.DB
	redis *redis.Client
}

// New wires the adapters selected by cfg:
//
//   - Postgres (DATABASE_URL) or SQLite (DB_PATH) for the provider cache;
//     with Postgres, results are mirrored into simulation_results.
//   - Redis (REDIS_URL) replaces the SQL provider cache when set.
//   - OpenRouteService when ORS_API_KEY is set, offline providers otherwise.
//   - RabbitMQ progress publishing when AMQP_URL is set.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	files := repositories.NewFileResultRepository(cfg.ProjectsDir)
	a.Projects = repositories.NewFileProjectRepository(cfg.ProjectsDir, cfg.DefaultServiceMinutes*60)
	a.Results = files

	var providerCache ports.ProviderCache
	if cfg.DatabaseURL != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("new app: %w", err)
		}
		a.db = pg
		if err := repositories.InitSchema(pg, repositories.DialectPostgres); err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
		providerCache = cache.NewSQLProviderCache(pg)
		a.Results = &repositories.MirroredResultRepository{
			Primary: files,
			Mirrors: []ports.ResultRepository{repositories.NewSQLResultRepository(pg)},
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("new app: create cache dir: %w", err)
		}
		lite, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("new app: %w", err)
		}
		a.db = lite
		if err := repositories.InitSchema(lite, repositories.DialectSqlite); err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
		providerCache = cache.NewSqliteProviderCache(lite)
	}

	if cfg.RedisURL != "" {
		client, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
		a.redis = client
		providerCache = cache.NewRedisProviderCache(client, time.Duration(cfg.CacheTTLHours)*time.Hour)
	}

	var (
		routes     ports.RouteProvider
		isochrones ports.IsochroneProvider
	)
	if cfg.ORSAPIKey != "" {
		ors, err := routing.NewORSProvider(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSProfile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
		routes, isochrones = ors, ors
	} else {
		log.Printf("ORS_API_KEY not set, using offline providers speed=%.0fkm/h", routing.DefaultSpeedKmh)
		routes = routing.NewStraightLineRouteProvider(routing.DefaultSpeedKmh)
		isochrones = routing.NewCircleIsochroneProvider(routing.DefaultSpeedKmh)
	}

	a.Dispatcher = &services.Dispatcher{
		Routes:     &cache.CachedRouteProvider{Next: routes, Cache: providerCache},
		Isochrones: &cache.CachedIsochroneProvider{Next: isochrones, Cache: providerCache},
	}

	if cfg.AMQPURL != "" {
		pub, err := publisher.DialAMQP(cfg.AMQPURL, publisher.DefaultExchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
		a.Progress = pub
	}

	return a, nil
}

// Mirror returns the per-session progress sink factory, or nil without AMQP.
func (a *App) Mirror() func(project, sessionID string) ports.ProgressSink {
	if a.Progress == nil {
		return nil
	}
	return a.Progress.ForSession
}

func (a *App) Close() {
	if a.Progress != nil {
		a.Progress.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/crickarena/fantasy-cricket/internal/config"
	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/alerting"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/crickarena/fantasy-cricket/internal/interfaces/httpapi"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
	"github.com/crickarena/fantasy-cricket/internal/platform/resilience"
	"github.com/crickarena/fantasy-cricket/internal/usecase"
)

// App owns the wired service graph and the lifecycle of its background
// pieces (HTTP server, contest spawner, DB pool).
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	server  *http.Server
	db      *sqlx.DB
	spawner *usecase.ContestSpawner
}

type repositories struct {
	matches  match.Repository
	stats    playerstat.Repository
	teams    fantasyteam.Repository
	contests contest.Repository
	wallets  wallet.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db    *sqlx.DB
		repos repositories
		err   error
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repos, err = newMemoryRepositories()
	default:
		db, err = openDB(cfg)
		if err == nil {
			repos = newPostgresRepositories(db)
		}
	}
	if err != nil {
		return nil, err
	}

	alerter := alerting.NewWebhookClient(alerting.WebhookConfig{
		Endpoint:       cfg.AlertWebhookEndpoint,
		ServiceName:    cfg.ServiceName,
		Environment:    cfg.AppEnv,
		RequestTimeout: cfg.AlertWebhookTimeout,
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: cfg.AlertCircuitFailures,
			OpenTimeout:      cfg.AlertCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AlertCircuitHalfOpenReq,
		},
	}, logger)

	spawner := usecase.NewContestSpawner(repos.contests, nil, logger, alerter, usecase.SpawnerOptions{
		QueueSize:   cfg.SpawnQueueSize,
		MaxAttempts: cfg.SpawnMaxAttempts,
		Backoff:     cfg.SpawnBackoff,
	})

	statSvc := usecase.NewStatService(repos.matches, repos.stats, logger)
	pointsSvc := usecase.NewTeamPointsService(repos.teams, repos.stats, logger)
	statSvc.SetRefresher(pointsSvc)
	contestSvc := usecase.NewContestService(repos.contests, repos.matches, repos.teams, repos.wallets, spawner, nil, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.contests, repos.matches, repos.teams, logger)

	handler := httpapi.NewHandler(statSvc, pointsSvc, contestSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.OperatorToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		server:  server,
		db:      db,
		spawner: spawner,
	}, nil
}

// Run serves HTTP until the listener fails or Shutdown is called. The
// spawner consumes fill events for the whole serving window.
func (a *App) Run(ctx context.Context) error {
	a.spawner.Start(ctx)
	a.logger.Info("http server starting",
		"addr", a.cfg.HTTPAddr,
		"storage_driver", a.cfg.StorageDriver,
		"env", a.cfg.AppEnv,
	)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownErr := a.server.Shutdown(ctx)

	a.spawner.Stop()

	if a.db != nil {
		if err := a.db.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.logger.Info("server stopped")
	return shutdownErr
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		matches:  postgres.NewMatchRepository(db),
		stats:    postgres.NewPlayerStatRepository(db),
		teams:    postgres.NewFantasyTeamRepository(db),
		contests: postgres.NewContestRepository(db),
		wallets:  postgres.NewWalletRepository(db),
	}
}

// newMemoryRepositories seeds a playable dev dataset so the API is usable
// without a database.
func newMemoryRepositories() (repositories, error) {
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository()
	for _, item := range memory.SeedMatches() {
		if err := matchRepo.Upsert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed match %s: %w", item.ID, err)
		}
	}

	walletRepo := memory.NewWalletRepository()
	for _, item := range memory.SeedWallets() {
		if err := walletRepo.Upsert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed wallet %s: %w", item.UserID, err)
		}
	}

	return repositories{
		matches:  matchRepo,
		stats:    memory.NewPlayerStatRepository(),
		teams:    memory.NewFantasyTeamRepository(),
		contests: memory.NewContestRepository(),
		wallets:  walletRepo,
	}, nil
}

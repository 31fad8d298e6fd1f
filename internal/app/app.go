package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/fgcfantasy/draft-league/internal/config"
	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
	"github.com/fgcfantasy/draft-league/internal/infrastructure/account/anubis"
	cachedrepo "github.com/fgcfantasy/draft-league/internal/infrastructure/repository/cache"
	"github.com/fgcfantasy/draft-league/internal/infrastructure/repository/memory"
	"github.com/fgcfantasy/draft-league/internal/infrastructure/repository/postgres"
	"github.com/fgcfantasy/draft-league/internal/interfaces/httpapi"
	basecache "github.com/fgcfantasy/draft-league/internal/platform/cache"
	idgen "github.com/fgcfantasy/draft-league/internal/platform/id"
	"github.com/fgcfantasy/draft-league/internal/platform/logging"
	"github.com/fgcfantasy/draft-league/internal/platform/resilience"
	"github.com/fgcfantasy/draft-league/internal/usecase"
)

type repositories struct {
	managers manager.Repository
	leagues  league.Repository
	teams    team.Repository
	players  player.Repository
	events   event.Repository
	scoring  scoring.Repository
}

// NewHTTPServer wires repositories, services, and the router into a
// ready-to-run HTTP server. With an empty DB_URL the service runs on
// seeded in-memory repositories, which is the local dev mode.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	idGen := idgen.NewRandomGenerator()

	leagueSvc := usecase.NewLeagueService(repos.managers, repos.leagues, repos.teams, idGen)
	teamSvc := usecase.NewTeamService(repos.managers, repos.leagues, repos.teams, repos.players, idGen)
	scoringSvc := usecase.NewScoringService(repos.events, repos.scoring, repos.players, repos.teams, repos.leagues, idGen)
	leaderboardSvc := usecase.NewLeaderboardService(repos.managers, repos.leagues, repos.teams, repos.players)
	eventSvc := usecase.NewEventService(repos.events, repos.scoring, idGen)

	anubisClient := anubis.NewClient(anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisCacheTTL,
		CacheMaxSize:   cfg.AnubisCacheMaxSize,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
	}, logger)

	slogger := logging.NewSlog(logger)
	handler := httpapi.NewHandler(leagueSvc, teamSvc, scoringSvc, leaderboardSvc, eventSvc, slogger)
	router := httpapi.NewRouter(
		handler,
		anubisClient,
		slogger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			managers: memory.NewManagerRepository(),
			leagues:  memory.NewLeagueRepository(),
			teams:    memory.NewTeamRepository(),
			players:  memory.NewPlayerRepository(memory.SeedPlayers()),
			events:   memory.NewEventRepository(memory.SeedEvents()),
			scoring:  memory.NewScoringRepository(memory.SeedDistributions()),
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
	}

	repos := repositories{
		managers: postgres.NewManagerRepository(db),
		leagues:  postgres.NewLeagueRepository(db),
		teams:    postgres.NewTeamRepository(db),
		players:  postgres.NewPlayerRepository(db),
		events:   postgres.NewEventRepository(db),
		scoring:  postgres.NewScoringRepository(db),
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.players = cachedrepo.NewPlayerRepository(repos.players, store)
		repos.events = cachedrepo.NewEventRepository(repos.events, store)
		repos.scoring = cachedrepo.NewScoringRepository(repos.scoring, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL)
	}

	logger.Info("using postgres repositories", "db", dbNameFromURL(cfg.DBURL))

	return repos, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

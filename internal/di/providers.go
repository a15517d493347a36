package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/app"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/database"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/handler"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/middleware"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/router"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/service"
)

var (
	ConfigSet        = wire.NewSet(config.Load)
	ObservabilitySet = wire.NewSet(provideLogger)
	RuntimeInfraSet  = wire.NewSet(provideDB, provideRedisClient, provideMailer, provideAvatarStorage)
	RepositorySet    = wire.NewSet(repository.NewUserRepository, repository.NewJobRepository)
	SecuritySet      = wire.NewSet(provideJWTManager, provideCookieManager)
	ServiceSet       = wire.NewSet(provideAuthService, provideJobService)
	HTTPSet          = wire.NewSet(
		handler.NewAuthHandler,
		handler.NewJobHandler,
		handler.NewUserHandler,
		provideRouterDependencies,
		router.New,
		provideHTTPServer,
	)
	AppSet = wire.NewSet(app.New)
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.LogLevel)
}

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	return database.NewPool(cfg).Get()
}

// provideRedisClient returns nil when REDIS_URL is unset; the router then
// falls back to per-instance rate limiting.
func provideRedisClient(cfg *config.Config) (redis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func provideMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.MailDriver == "log" {
		return service.NewDevMailer(logger)
	}
	return service.NewSMTPMailer(cfg, logger)
}

// provideAvatarStorage returns nil when no object store is configured; the
// avatar endpoints report storage as unavailable in that case.
func provideAvatarStorage(cfg *config.Config) (service.AvatarStorage, error) {
	if !cfg.StorageConfigured() {
		return nil, nil
	}
	return service.NewMinIOAvatarStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager("statusup", cfg.SessionSecret)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideAuthService(users repository.UserRepository, mailer service.Mailer, cfg *config.Config) service.AuthServiceInterface {
	return service.NewAuthService(users, mailer, cfg)
}

func provideJobService(jobs repository.JobRepository) service.JobServiceInterface {
	return service.NewJobService(jobs)
}

func provideRouterDependencies(
	cfg *config.Config,
	logger *slog.Logger,
	jwtMgr *security.JWTManager,
	authHandler *handler.AuthHandler,
	jobHandler *handler.JobHandler,
	userHandler *handler.UserHandler,
	redisClient redis.UniversalClient,
	db *gorm.DB,
) router.Dependencies {
	window := time.Minute
	var authLimiter, apiLimiter *middleware.RateLimiter
	if redisClient != nil {
		shared := middleware.NewRedisFixedWindowLimiter(redisClient, "statusup:rl")
		authLimiter = middleware.NewRateLimiterWith(shared, cfg.AuthRateLimitPerMin, window, middleware.FailOpen, "auth", nil)
		apiLimiter = middleware.NewRateLimiterWith(shared, cfg.APIRateLimitPerMin, window, middleware.FailOpen, "api", middleware.SubjectOrIPKeyFunc(jwtMgr))
	} else {
		authLimiter = middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, window)
		apiLimiter = middleware.NewRateLimiterWith(middleware.NewLocalFixedWindowLimiter(), cfg.APIRateLimitPerMin, window, middleware.FailClosed, "api", middleware.SubjectOrIPKeyFunc(jwtMgr))
	}

	return router.Dependencies{
		Config:      cfg,
		Logger:      logger,
		JWTManager:  jwtMgr,
		AuthHandler: authHandler,
		JobHandler:  jobHandler,
		UserHandler: userHandler,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
		Readiness:   readinessCheck(db, redisClient),
	}
}

func readinessCheck(db *gorm.DB, redisClient redis.UniversalClient) func() error {
	return func() error {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("database handle: %w", err)
			}
			if err := sqlDB.Ping(); err != nil {
				return fmt.Errorf("database ping: %w", err)
			}
		}
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
		}
		return nil
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type MigrationRunner struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewMigrationRunner(db *gorm.DB, logger *slog.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, logger: logger}
}

func (m *MigrationRunner) Run() error {
	m.logger.Info("running schema migration")
	if err := database.Migrate(m.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	m.logger.Info("schema migration complete")
	return nil
}

// RunMigrationOnly builds just enough of the graph to migrate and exit.
func RunMigrationOnly() error {
	runner, err := InitializeMigrationRunner()
	if err != nil {
		return err
	}
	return runner.Run()
}

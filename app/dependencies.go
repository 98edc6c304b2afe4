package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/upb/yamdb/auth"
	"github.com/upb/yamdb/config"
	"github.com/upb/yamdb/handlers"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/internal/observability"
	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/repositories/postgres"
	"github.com/upb/yamdb/services"
	"github.com/upb/yamdb/services/audit"
	"go.uber.org/zap"
)

const metricsNamespace = "yamdb"

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Redis   *redis.Client
	Logger  *zap.Logger
	Metrics *prometheus.Registry

	RepoFactory *postgres.RepositoryFactory
	Repos       *repositories.Repositories
	TxManager   repositories.TransactionManager

	// Authentication and authorization
	Tokens *auth.TokenService
	Codes  *auth.CodeStore
	Guard  *authz.Guard

	// Services
	Audit   *audit.AuditService
	Auth    *services.AuthService
	Users   *services.UserService
	Catalog *services.CatalogService
	Titles  *services.TitleService
	Reviews *services.ReviewService
	Blog    *services.BlogService
	Follows *services.FollowService

	// HTTP
	HTTPMetrics          *observability.HTTPMetrics
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware

	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	CatalogHandler *handlers.CatalogHandler
	ReviewHandler  *handlers.ReviewHandler
	BlogHandler    *handlers.BlogHandler
	FollowHandler  *handlers.FollowHandler
	AuditHandler   *handlers.AuditHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies connects to PostgreSQL and Redis and wires every
// service, middleware and handler on top of them.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		_ = factory.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	deps, err := Wire(cfg, logger, factory, redisClient)
	if err != nil {
		_ = redisClient.Close()
		_ = factory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Wire builds the application on an already opened database and Redis client.
func Wire(cfg *config.Config, logger *zap.Logger, factory *postgres.RepositoryFactory, redisClient *redis.Client) (*Dependencies, error) {
	d := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
		Redis:       redisClient,
		Repos:       factory.NewRepositories(),
		TxManager:   factory.GetTransactionManager(),
	}

	d.initMetrics()
	if err := d.initServices(); err != nil {
		return nil, err
	}
	d.initHTTP()

	return d, nil
}

func (d *Dependencies) initMetrics() {
	d.Metrics = prometheus.NewRegistry()
	d.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.HTTPMetrics = observability.NewHTTPMetrics(metricsNamespace, d.Metrics)
	d.Guard = authz.NewGuard(authz.NewMetrics(metricsNamespace, d.Metrics), d.Logger)
}

func (d *Dependencies) initServices() error {
	cfg := d.Config

	d.Audit = audit.NewAuditService(d.Repos.AuditLogs, d.Logger, audit.DefaultConfig())
	if err := d.Audit.Start(); err != nil {
		return fmt.Errorf("failed to start audit service: %w", err)
	}

	d.Tokens = auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	d.Codes = auth.NewCodeStore(d.Redis, cfg.Auth.ConfirmationCodeTTL, d.Logger)
	mailer := auth.NewLogMailer(cfg.Mail.From, d.Logger)

	d.Auth = services.NewAuthService(d.Repos.Users, d.Codes, mailer, d.Tokens, d.Logger)
	d.Users = services.NewUserService(d.Repos.Users, d.Audit, d.Logger)
	d.Catalog = services.NewCatalogService(d.Repos.Categories, d.Repos.Genres, d.Logger)
	d.Titles = services.NewTitleService(d.Repos.Titles, d.Repos.Categories, d.Repos.Genres, d.TxManager, d.Logger)
	d.Reviews = services.NewReviewService(d.Repos.Titles, d.Repos.Reviews, d.Repos.Comments, d.Guard, d.Audit, d.Logger)
	d.Blog = services.NewBlogService(d.Repos.Groups, d.Repos.Posts, d.Repos.PostComments, d.Guard, d.Logger)
	d.Follows = services.NewFollowService(d.Repos.Users, d.Repos.Follows, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

func (d *Dependencies) initHTTP() {
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Auth, d.Logger)
	d.PermissionMiddleware = middleware.NewPermissionMiddleware(d.Guard, d.Logger)

	d.AuthHandler = handlers.NewAuthHandler(d.Auth, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.Users, d.Logger)
	d.CatalogHandler = handlers.NewCatalogHandler(d.Catalog, d.Titles, d.Logger)
	d.ReviewHandler = handlers.NewReviewHandler(d.Reviews, d.Logger)
	d.BlogHandler = handlers.NewBlogHandler(d.Blog, d.Logger)
	d.FollowHandler = handlers.NewFollowHandler(d.Follows, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.Audit, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Logger,
		handlers.ReadinessCheck{Name: "database", Probe: handlers.DatabaseProbe(d.DB.DB)},
		handlers.ReadinessCheck{Name: "redis", Probe: d.Codes},
	)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Flush pending audit entries before the pool goes away
	if d.Audit != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}

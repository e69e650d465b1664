// Package di wires the application graph: stores, repositories, services,
// handlers. Construction happens once at startup; the container owns the
// lifecycle of everything it builds.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	adminhttp "github.com/lhpaul/finadmin/internal/admin/adapter/http"

	"github.com/lhpaul/finadmin/internal/admin/adapter/feed"
	"github.com/lhpaul/finadmin/internal/admin/config"
	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
	"github.com/lhpaul/finadmin/internal/auth"
	"github.com/lhpaul/finadmin/internal/events"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
	"github.com/lhpaul/finadmin/internal/store/memory"
	"github.com/lhpaul/finadmin/internal/store/mongodb"
)

// Collection path templates. Companies, transactions and users live in the
// durable store; subscriptions and financial institutions run in-process.
const (
	companiesPath     = "companies"
	transactionsPath  = "companies/{companyId}/transactions"
	usersPath         = "users"
	subscriptionsPath = "subscriptions"
	institutionsPath  = "financialInstitutions"
)

// Container holds the wired application graph.
type Container struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *repository.Registry
	Handlers adminhttp.Handlers

	durable   store.Client
	events    events.Publisher
	zapLogger *zap.Logger
}

// New builds the full graph on top of an established mongo database and an
// optional redis client (nil disables event publishing).
func New(cfg *config.Config, db *mongo.Database, redisClient *redis.Client, log logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log, Registry: repository.NewRegistry()}

	mongoStore := mongodb.NewClient(db, log)
	if err := mongoStore.EnsureIndexes(context.Background(), "companies", "transactions", "users"); err != nil {
		return nil, fmt.Errorf("ensuring store indexes: %w", err)
	}
	c.durable = mongoStore
	inProcess := memory.New()

	if redisClient != nil {
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("building event logger: %w", err)
		}
		c.zapLogger = zl
		c.events = events.NewRedisPublisher(redisClient, zl)
	} else {
		c.events = events.NoopPublisher{}
	}

	policy := repository.RetryPolicy{Delay: cfg.RetryDelay, MaxAttempts: cfg.RetryMaxAttempts}

	companies, err := newRepo[model.Company](c.Registry, c.durable, companiesPath, policy, log)
	if err != nil {
		return nil, err
	}
	transactions, err := newRepo[model.Transaction](c.Registry, c.durable, transactionsPath, policy, log)
	if err != nil {
		return nil, err
	}
	users, err := newRepo[model.User](c.Registry, c.durable, usersPath, policy, log)
	if err != nil {
		return nil, err
	}
	subscriptions, err := newRepo[model.Subscription](c.Registry, inProcess, subscriptionsPath, policy, log)
	if err != nil {
		return nil, err
	}
	institutions, err := newRepo[model.FinancialInstitution](c.Registry, inProcess, institutionsPath, policy, log)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(users, tokens, log)

	var feedClient feed.Client
	if cfg.FeedBaseURL != "" {
		feedClient = feed.NewHTTPClient(cfg.FeedBaseURL, cfg.FeedAPIKey, log)
	} else {
		log.Warn("FEED_BASE_URL not set, using the in-memory fake feed")
		feedClient = feed.NewFake()
	}

	syncService := usecase.NewSyncService(transactions, feedClient, c.durable, c.events, cfg.SyncMaxBatchSize, log)

	c.Handlers = adminhttp.Handlers{
		Auth:          adminhttp.NewAuthHandler(authService),
		Companies:     adminhttp.NewCompanyHandler(usecase.NewCompanyService(companies, c.events, log)),
		Transactions:  adminhttp.NewTransactionHandler(usecase.NewTransactionService(transactions, c.events, log)),
		Subscriptions: adminhttp.NewSubscriptionHandler(usecase.NewSubscriptionService(subscriptions, log)),
		Institutions:  adminhttp.NewInstitutionHandler(usecase.NewFinancialInstitutionService(institutions, log)),
		Sync:          adminhttp.NewSyncHandler(syncService),
		Middleware:    adminhttp.NewAuthMiddleware(authService),
	}
	return c, nil
}

func newRepo[T any](reg *repository.Registry, client store.Client, path string, policy repository.RetryPolicy, log logger.Logger) (*repository.Repository[T], error) {
	repo, err := repository.New[T](client, path, log)
	if err != nil {
		return nil, err
	}
	repo = repo.WithRetryPolicy(policy)
	if err := repository.Register(reg, repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// Close releases everything the container owns.
func (c *Container) Close(ctx context.Context) error {
	var firstErr error
	if err := c.events.Close(); err != nil {
		firstErr = err
	}
	if c.zapLogger != nil {
		_ = c.zapLogger.Sync()
	}
	if err := c.durable.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

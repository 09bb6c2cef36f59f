// Package app wires configuration into repositories, services and the router.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/honeynil/rotrade/internal/api"
	"github.com/honeynil/rotrade/internal/config"
	"github.com/honeynil/rotrade/internal/events"
	"github.com/honeynil/rotrade/internal/handler"
	"github.com/honeynil/rotrade/internal/infrastructure/auth"
	"github.com/honeynil/rotrade/internal/infrastructure/kafka"
	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	core "github.com/honeynil/rotrade/internal/repository/postgres"
	service "github.com/honeynil/rotrade/internal/services"
)

const consumerGroup = "rotrade-ledger"

type Options struct {
	// ServeMetrics and ServeHealth add /metrics and /healthz to the router.
	ServeMetrics bool
	ServeHealth  bool
	// DisableEvents forces the no-op publisher even when brokers are set.
	DisableEvents bool
}

type App struct {
	Router http.Handler

	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
	coins    service.CoinService
	brokers  []string
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	db, err := core.Open(ctx, cfg.PostgresDSN, core.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart {
		if err := core.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{db: db, redis: redisClient}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 && !opts.DisableEvents {
		a.producer = kafka.NewProducer(cfg.KafkaBrokers)
		a.brokers = cfg.KafkaBrokers
		publisher = a.producer
		slog.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	userRepo := core.NewPostgresUserRepository(db)
	blockRepo := core.NewPostgresBlockRepository(db)
	listingRepo := core.NewPostgresListingRepository(db)
	messageRepo := core.NewPostgresMessageRepository(db)
	reportRepo := core.NewPostgresReportRepository(db)
	reviewRepo := core.NewPostgresReviewRepository(db)
	coinRepo := core.NewPostgresCoinRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, redisClient)
	coins := service.NewCoinService(coinRepo, listingRepo, userRepo, redisClient, publisher)
	a.coins = coins

	h := handler.NewHandler(handler.Services{
		Auth:       service.NewAuthService(userRepo, tokens, publisher),
		Listings:   service.NewListingService(listingRepo, userRepo, redisClient, cfg.ListingsCacheTTL, publisher),
		Messages:   service.NewMessageService(messageRepo, blockRepo, publisher),
		Blocks:     service.NewBlockService(blockRepo),
		Moderation: service.NewModerationService(userRepo, reportRepo, reviewRepo),
		Coins:      coins,
	})

	routerCfg := api.RouterConfig{
		Handler:        h,
		Tokens:         tokens,
		AuthRequired:   cfg.AuthRequired,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ServeMetrics:   opts.ServeMetrics,
	}
	if opts.ServeHealth {
		routerCfg.Health = db.PingContext
	}
	a.Router = api.NewRouter(routerCfg)
	return a, nil
}

// StartConsumer runs the ledger reconciler until ctx is done. It returns
// nil at once when no broker is configured.
func (a *App) StartConsumer(ctx context.Context) *kafka.Consumer {
	if len(a.brokers) == 0 {
		return nil
	}
	consumer := kafka.NewConsumer(a.brokers, events.TopicCoins, consumerGroup, a.coins)
	go consumer.Consume(ctx)
	slog.Info("ledger consumer started", "topic", events.TopicCoins, "group", consumerGroup)
	return consumer
}

func (a *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.producer != nil {
		keep(a.producer.Close())
	}
	keep(a.redis.Close())
	keep(a.db.Close())
	if firstErr != nil {
		return fmt.Errorf("failed to close resources: %w", firstErr)
	}
	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
	cardcmd "github.com/christianEkogha/basic-cash-card/internal/command"
	"github.com/christianEkogha/basic-cash-card/internal/config"
	"github.com/christianEkogha/basic-cash-card/internal/events"
	"github.com/christianEkogha/basic-cash-card/internal/logger"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
	cardqry "github.com/christianEkogha/basic-cash-card/internal/query"
	redisClient "github.com/christianEkogha/basic-cash-card/internal/redis"
	"github.com/christianEkogha/basic-cash-card/internal/repository"
	"github.com/christianEkogha/basic-cash-card/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	l, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %v\n", err)
		os.Exit(1)
	}
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("Cash card service stopped")
		os.Exit(1)
	}
}

// run owns every resource it opens, so all of them are closed on any return.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Card store (write side and source of truth)
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s card store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	// Redis (read model cache + event streaming), optional
	var cache *goredis.Client
	var publisher cardcmd.EventPublisher
	if cfg.RedisAddr != "" {
		redis, err := redisClient.Connect(ctx, redisClient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redis.Close()
		cache = redis.Client
		publisher = events.NewPublisher(redis.Client, cfg.EventStreamMaxLen)
	} else {
		log.Info().Msg("REDIS_ADDR not set; view cache and card events disabled")
	}

	creds, err := auth.NewInMemoryCredentialStoreWithCost(cfg.Users(), cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	resolver := paging.NewResolver(cfg.DefaultPageSize, cfg.MaxPageSize)
	if cfg.StrictPaging {
		resolver = resolver.Strict()
	}

	// --- CQRS wiring ---
	readRepo := repository.NewCardReadRepository(store, cache, cfg.CardCacheTTL)
	commandSvc := cardcmd.NewCardCommandService(store, readRepo, publisher)
	querySvc := cardqry.NewCardQueryService(readRepo, resolver)

	router := server.NewRouter(server.Deps{
		Commands:    commandSvc,
		Queries:     querySvc,
		Credentials: creds,
		Tokens:      auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Cash card service starting")
		serveErr <- srv.ListenAndServe()
	}()

	// Graceful shutdown
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.CardStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := repository.NewPostgresCardStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case config.StoreBolt:
		store, err := repository.NewBoltCardStore(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

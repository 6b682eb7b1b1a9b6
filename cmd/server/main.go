// Package main - точка входа HTTP-сервиса рейтингов QuizHive.
//
// Сервис - чистая read-сторона: он агрегирует журнал попыток и счётчики
// серий в рейтинги, ничего не записывая. Архитектура следует принципам
// Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация запросов (CQRS read side)
// - Infrastructure: PostgreSQL и Redis реализации контрактов
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quizhive/quizhive-rankings/config"
	"github.com/quizhive/quizhive-rankings/internal/application/query"
	"github.com/quizhive/quizhive-rankings/internal/infrastructure/persistence/postgres"
	"github.com/quizhive/quizhive-rankings/internal/infrastructure/persistence/redis"
	httpserver "github.com/quizhive/quizhive-rankings/internal/interface/http"
	"github.com/quizhive/quizhive-rankings/pkg/logger"
	"github.com/quizhive/quizhive-rankings/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})
	log.Info("starting QuizHive Community Rankings",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// Retry только здесь, на установке соединения: сами запросы рейтинга
	// никогда не перезапускаются автоматически.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ПОДКЛЮЧЕНИЕ К REDIS (хранилище счётчиков серий)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	var redisClient *redis.Client
	err = retry.RedisRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		redisClient, connErr = redis.NewClient(redisCfg)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection...")
		_ = redisClient.Close()
	}()
	log.Info("Redis connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	rankingRepo := postgres.NewRankingRepository(dbConn)
	identityRepo := postgres.NewIdentityRepository(dbConn)
	streakStore := redis.NewStreakStore(redisClient)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (CQRS Read Side)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")
	nameResolver := query.NewDisplayNameResolver(identityRepo, identityRepo, log)
	accuracyQuery := query.NewGetAccuracyRankingHandler(rankingRepo, nameResolver, log)
	streakQuery := query.NewGetStreakRankingHandler(streakStore, nameResolver, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	healthChecker := httpserver.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("postgres", httpserver.NewPingCheck(dbConn))
	healthChecker.AddCheck("redis", httpserver.NewPingCheck(redisClient))

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.RateLimitPerMinute = cfg.Server.RateLimit
	httpConfig.MinQuestions = cfg.Ranking.MinQuestions
	httpConfig.AccuracyLimit = cfg.Ranking.AccuracyLimit
	httpConfig.MinStreak = cfg.Ranking.MinStreak
	httpConfig.StreakLimit = cfg.Ranking.StreakLimit
	httpConfig.QueryDeadline = cfg.Ranking.QueryDeadline

	httpDeps := httpserver.Dependencies{
		GetAccuracyRankingHandler: accuracyQuery,
		GetStreakRankingHandler:   streakQuery,
		Logger:                    log,
		HealthChecker:             healthChecker,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("QuizHive Community Rankings is running",
		logger.String("address", server.Address()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...",
		logger.String("timeout", cfg.Server.ShutdownTimeout.String()),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

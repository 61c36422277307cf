// @title        Recipe App API
// @version      1.0
// @description  食譜、標籤與使用者的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description "Bearer <token>"，token 由 POST /users/token 取得
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-app/internal/cache"
	"recipe-app/internal/config"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/logger"
	"recipe-app/internal/media"
	"recipe-app/internal/metrics"
	"recipe-app/internal/middleware"
	"recipe-app/internal/ratelimit"
	"recipe-app/internal/router"
	"recipe-app/internal/service"
	"recipe-app/internal/store"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "recipe-app/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newMediaStorage = media.NewStorage
	newWorkerPool   = worker.NewPool
	notifyContext   = signal.NotifyContext
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	storage, err := newMediaStorage(cfg.MediaRoot)
	if err != nil {
		return fmt.Errorf("media 目錄初始化失敗: %w", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, cfg.WorkerQueue)
	defer wp.Stop()

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	m := metrics.New()
	tags := store.TagRepository{}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	router.Setup(e, router.Deps{
		DB:             db,
		Cache:          rdb,
		Tokens:         service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, rdb),
		Recipes:        service.NewRecipeService(db, store.RecipeRepository{}, tags, m),
		Tags:           service.NewTagService(db, tags, m),
		Images:         media.NewDeferredStore(storage, wp),
		MediaRoot:      storage.Root(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Limiter:        limiter,
		Metrics:        m,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", slog.String("addr", cfg.HTTPAddr), slog.String("env", cfg.Env))
		errCh <- startServer(e, cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server 錯誤: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server 關閉失敗: %w", err)
		}
		return nil
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped", logger.Err(err))
		exitFunc(1)
	}
}

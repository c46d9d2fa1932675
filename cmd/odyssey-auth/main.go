package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odyssey-erp/odyssey-auth/internal/app"
	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/authz"
	"github.com/odyssey-erp/odyssey-auth/internal/observability"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/db"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/roles"
	"github.com/odyssey-erp/odyssey-auth/internal/users"
)

// loginRoutePerMinute caps POST /auth per client IP on top of the global limit.
const loginRoutePerMinute = 20

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login limiter disabled", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	tokens, err := auth.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		logger.Error("token codec", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	var limiter auth.LoginLimiter
	if l := auth.NewAttemptLimiter(redisClient, auth.LimiterConfig{
		MaxFailures: cfg.LoginMaxFailures,
		Lockout:     cfg.LoginLockout,
	}); l != nil {
		limiter = l
	}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, auth.NewHasher(auth.DefaultArgon2Params), tokens, limiter, logger)
	authHandler := auth.NewHandler(logger, authService, metrics, loginRoutePerMinute)

	rbacService := rbac.NewService(rbac.NewRepository(dbpool))
	gate := authz.NewGate(tokens, authz.NewStoreLoader(dbpool, cfg.AuthzSnapshotReads), authz.Options{
		EnforceActive: cfg.AuthzEnforceActive,
	})
	authzMiddleware := authz.Middleware{Gate: gate, Logger: logger, Metrics: metrics}

	usersService := users.NewService(users.NewRepository(dbpool), rbacService, authService, time.Local)
	usersHandler := users.NewHandler(logger, usersService, authzMiddleware)

	rolesHandler := roles.NewHandler(logger, roles.NewService(rbacService), authzMiddleware)
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, authzMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		DB:                 dbpool,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		RolesHandler:       rolesHandler,
		PermissionsHandler: permissionsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"shopapi/docs"
	"shopapi/internal/applog"
	"shopapi/internal/auth"
	"shopapi/internal/cache"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/database/migration"
	handlers "shopapi/internal/http/handler"
	"shopapi/internal/http/middleware"
	"shopapi/internal/pricing"
	"shopapi/internal/repository/postgres"
	"shopapi/internal/service"
	"shopapi/internal/storage"
	"shopapi/internal/tracing"
)

// @title Shop API
// @version 1.0
// @description E-commerce backend: users, products, orders.
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name jwt
func main() {
	cfg := config.Load()
	loc := cfg.Location()

	if err := run(cfg, loc); err != nil {
		applog.Error(loc, "server_exit", err, nil)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, loc *time.Location) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, loc)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			applog.Error(loc, "tracing_shutdown_failed", err, nil)
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return err
	}

	var productCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc, closeRedis, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer closeRedis()
		productCache = rc
	} else {
		applog.Info(loc, "cache_disabled", map[string]any{"reason": "REDIS_ADDR not set"})
	}

	rules, err := pricing.RulesFromConfig(cfg.Pricing)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserPostgres(db)
	productRepo := postgres.NewProductPostgres(db)
	orderRepo := postgres.NewOrderPostgres(db)

	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, objStore, productCache, service.ProductServiceConfig{
		PageSize: cfg.PaginationLimit,
		CacheTTL: time.Duration(cfg.Redis.TTLSec) * time.Second,
		Location: loc,
	})
	orderSvc := service.NewOrderService(orderRepo, productRepo, rules)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitMB << 20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
	}))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Users:    userSvc,
		Products: productSvc,
		Orders:   orderSvc,
		Session:  handlers.Session{Tokens: tokens, Secure: cfg.Auth.CookieSecure},
		Metrics:  reg,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		applog.Info(loc, "server_started", map[string]any{"addr": ":" + cfg.Port})
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	applog.Info(loc, "server_stopping", nil)
	return app.ShutdownWithTimeout(10 * time.Second)
}

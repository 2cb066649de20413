package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/config"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/controller"
	circuitbreaker "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/tracing"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/middleware"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/repository"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/service"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/response"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/validator"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const ServiceName = "catalog-service"

type App struct {
	DB        *sqlx.DB
	Cache     *redis.Client
	Search    *elasticsearch.Client
	Publisher service.EventPublisher
	Config    *config.Config
	Server    *echo.Echo
}

// ConfigureLogger installs the global JSON logger. Unknown levels fall back
// to info.
func ConfigureLogger(level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", ServiceName).Logger()

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = logger

	return logger
}

// Routes builds the HTTP server with every catalog route registered.
func (app *App) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.CreateNewValidator()

	g := e.Group("/api/v1")
	g.Use(middleware.Logger)

	productRepo := repository.CreateNewProductRepository(app.DB)
	categoryRepo := repository.CreateNewCategoryRepository(app.DB, app.Cache)
	favoriteRepo := repository.CreateNewFavoriteRepository(app.DB)
	elasticSearchRepo := repository.CreateNewElasticSearchRepository(app.Search, app.Config.ElasticsearchConfig.Index, circuitbreaker.CreateCircuitBreaker("elasticsearch"))

	productSvc := service.CreateProductService(productRepo, categoryRepo, favoriteRepo, elasticSearchRepo, app.Publisher)
	favoriteSvc := service.CreateFavoriteService(productRepo, favoriteRepo)

	isLoggedIn := middleware.IsLoggedIn(app.Config.JWTSecret)
	controller.CreateProductController(g, productSvc, isLoggedIn, middleware.MaybeLoggedIn(app.Config.JWTSecret))
	controller.CreateFavoriteController(g, favoriteSvc, isLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	return e
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight requests.
func (app *App) Start() {
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost, ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	tracer := traceProvider.Tracer(ServiceName)

	e := app.Routes()

	e.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Request().URL.Path))
			defer span.End()

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	})

	// no subsystem prefix, so metrics aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	app.Server = e

	go func() {
		if err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	if err := app.StopServer(); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metrics.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown metrics server")
	}
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}

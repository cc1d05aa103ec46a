package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/clinsight/bleedrisk/docs"
	"github.com/clinsight/bleedrisk/internal/assessment"
	"github.com/clinsight/bleedrisk/internal/cache"
	"github.com/clinsight/bleedrisk/internal/config"
	apperrors "github.com/clinsight/bleedrisk/internal/errors"
	"github.com/clinsight/bleedrisk/internal/frontend"
	"github.com/clinsight/bleedrisk/internal/middleware"
	"github.com/clinsight/bleedrisk/internal/model"
	"github.com/clinsight/bleedrisk/internal/monitoring"
	"github.com/clinsight/bleedrisk/internal/ratelimit"
	"github.com/clinsight/bleedrisk/internal/schema"
	"github.com/clinsight/bleedrisk/internal/security"
)

// @title ICU Bleeding Risk Prediction API
// @version 1.0
// @description Clinical decision-support API predicting in-hospital major bleeding risk for ICU patients.
// @BasePath /api/v1

func main() {
	logger := monitoring.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		// Startup is fatal before any prediction UI is reachable: a missing
		// or corrupt model bundle must never serve scores.
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening",
			"addr", cfg.Server.Addr(),
			"model", cfg.Model.BundlePath,
			"model_version", app.bundle.ModelVersion,
			"features", len(app.bundle.FeatureNames),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}

// newApp loads the model bundle, verifies it against the canonical feature
// schema and wires the pipeline. Any error here is a startup error.
func newApp(cfg *config.Config, logger *monitoring.Logger) (*app, error) {
	bundle, err := model.Load(cfg.Model.BundlePath)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(bundle.FeatureNames); err != nil {
		return nil, err
	}
	explainer := model.NewExplainer(bundle)

	assessor, err := assessment.NewAssessor(bundle, explainer, cfg.Risk.Thresholds())
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()

	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		bundle:    bundle,
		explainer: explainer,
		assessor:  assessor,
	}

	if cfg.Cache.Enabled {
		a.cache = cache.New(cfg.Cache.TTL)
	}
	if cfg.RateLimit.Enabled {
		a.redis = ratelimit.NewRedisClient(cfg.RateLimit.RedisAddr)
		a.limiter = ratelimit.NewRateLimiter(a.redis, ratelimit.Config{
			RequestsPerMin: cfg.RateLimit.RequestsPerMin,
			Burst:          cfg.RateLimit.Burst,
		}, metrics)
	}

	return a, nil
}

// router assembles the gin engine: monitoring and error middleware first,
// then CORS, then the form, API and docs routes.
func (a *app) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.Middleware(a.metrics, a.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(middleware.Compression())
	r.Use(security.Headers(a.cfg.Server.EnableHSTS))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.cfg.Server.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api/v1")
	{
		assess := api.Group("/")
		if a.limiter != nil {
			assess.Use(a.limiter.Middleware())
		}
		assess.POST("/assess", a.handleAssess)

		api.GET("/schema", a.handleSchema)
		api.GET("/model", a.handleModelInfo)
	}

	r.GET("/health", a.handleHealth)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	staticFS, err := frontend.StaticFS()
	if err != nil {
		slog.Error("embedded form assets unavailable", "error", err)
	} else {
		handler := frontend.Handler(staticFS)
		r.GET("/", handler)
		r.GET("/index.html", handler)
	}

	return r
}

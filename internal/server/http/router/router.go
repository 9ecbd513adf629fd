package router

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/metrics"
	"github.com/polkiloo/ordertrack/internal/server/http/handlers"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

// Params groups router dependencies.
type Params struct {
	fx.In

	Facade   handlers.StorefrontFacade
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.HTTPMetrics `optional:"true"`
	Gatherer prometheus.Gatherer  `optional:"true"`
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(cors.New(corsConfig(p.Config.CORSAllowedOrigins)))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))
	engine.Use(middleware.RequestTimeout(p.Config.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(p.Facade)
	authHandler := handlers.NewAuthHandler(p.Facade, p.Config.AdminTokenTTL)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	adminOrderHandler := handlers.NewAdminOrderHandler(p.Facade)
	auditHandler := handlers.NewAuditHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)
	if p.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))
	}

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/track/:token", orderHandler.Track)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AuthRequired(p.Facade))
	adminAuth.GET("/orders", adminOrderHandler.List)
	adminAuth.GET("/orders/:id", adminOrderHandler.Get)
	adminAuth.PATCH("/orders/:id/status", adminOrderHandler.SetStatus)
	adminAuth.DELETE("/orders/:id", adminOrderHandler.Delete)
	adminAuth.GET("/orders/:id/audit", auditHandler.Trail)
	adminAuth.GET("/audit", auditHandler.Trails)
	adminAuth.GET("/reports", auditHandler.Report)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", "Content-Encoding"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

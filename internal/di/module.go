package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/app"
	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/logger"
	"github.com/polkiloo/ordertrack/internal/metrics"
	"github.com/polkiloo/ordertrack/internal/pkg/auth"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
	"github.com/polkiloo/ordertrack/internal/server/http/router"
	"github.com/polkiloo/ordertrack/internal/storage"
	"github.com/polkiloo/ordertrack/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		tracking.Module,
		storage.Module,
		usecase.Module,
		app.Module,
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

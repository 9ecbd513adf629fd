package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		newHealthChecker,
		func(f *StorefrontFacade) adminBootstrapper { return f },
		newHTTPServer,
		newTrackingSweeper,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: p.Config.RequestTimeout,
	}
}

type workerParams struct {
	fx.In

	Facade *StorefrontFacade
	Config *config.Config
	Logger *slog.Logger
}

func newTrackingSweeper(p workerParams) *worker.TrackingSweeper {
	return worker.NewTrackingSweeper(
		p.Facade,
		p.Config.TrackingSweepInterval,
		p.Config.TrackingRetention,
		p.Config.TrackingSweepBatch,
		p.Logger,
	)
}

// adminBootstrapper seeds the first administrator on start.
type adminBootstrapper interface {
	EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Sweeper    *worker.TrackingSweeper
	Admins     adminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Admins != nil {
				created, err := p.Admins.EnsureAdmin(ctx, p.Config.BootstrapAdminEmail, p.Config.BootstrapAdminPassword, p.Config.BootstrapAdminName)
				if err != nil {
					return fmt.Errorf("bootstrap admin: %w", err)
				}
				if created {
					p.Logger.Info("bootstrap admin created", slog.String("email", p.Config.BootstrapAdminEmail))
				}
			}

			p.Logger.Info("starting ordertrack", slog.String("addr", p.Server.Addr))
			p.Sweeper.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("ordertrack stopped")
			return nil
		},
	})
}

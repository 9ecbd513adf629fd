package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/storage/postgres"
	"github.com/polkiloo/ordertrack/internal/storage/redisstore"
)

// Module wires persistence: PostgreSQL repositories and the configured
// daily number backend.
var Module = fx.Options(
	postgres.Module,
	fx.Provide(newSequenceAllocator),
)

type allocatorParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ctx       context.Context
	Config    *config.Config
	Storage   *postgres.Storage
	Logger    *slog.Logger
}

var dialRedis = redisstore.New

func newSequenceAllocator(p allocatorParams) (repository.SequenceAllocator, error) {
	if p.Config.SequenceBackend != config.SequenceBackendRedis {
		return p.Storage.Sequence(), nil
	}

	client, err := dialRedis(p.Ctx, p.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	p.Logger.Info("daily order numbers served by redis")
	return redisstore.NewSequenceAllocator(client), nil
}

package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/storage/postgres"
)

type healthParams struct {
	fx.In

	Storage  *postgres.Storage
	Sequence repository.SequenceAllocator `optional:"true"`
}

// probes checks every backing store and reports all failures together.
type probes []HealthChecker

func (p probes) HealthCheck(ctx context.Context) error {
	var errs error
	for _, probe := range p {
		errs = multierr.Append(errs, probe.HealthCheck(ctx))
	}
	return errs
}

func newHealthChecker(p healthParams) HealthChecker {
	checks := probes{p.Storage}
	if seq, ok := p.Sequence.(HealthChecker); ok {
		checks = append(checks, seq)
	}
	return checks
}

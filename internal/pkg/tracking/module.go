package tracking

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
)

// Module provides the tracking token issuer configured from Config.
var Module = fx.Provide(newIssuer)

func newIssuer(cfg *config.Config) *Issuer {
	return NewIssuer(Options{TTL: cfg.TrackingTokenTTL})
}

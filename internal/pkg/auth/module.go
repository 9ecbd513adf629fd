package auth

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
)

// Module provides the admin password hasher and session token strategy.
var Module = fx.Provide(
	newPasswordHasher,
	newTokenStrategy,
)

type params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger `optional:"true"`
}

func newPasswordHasher(p params) PasswordHasher {
	return NewBcryptHasher(p.Config.PasswordHashCost)
}

func newTokenStrategy(p params) Strategy {
	if p.Config.JWTSecret == "" || p.Config.JWTSecret == config.DefaultJWTSecret {
		if p.Logger != nil {
			p.Logger.Warn("admin tokens are signed with the default secret; set JWT_SECRET")
		}
	}
	return NewJWTStrategy(p.Config.JWTSecret, Options{TTL: p.Config.AdminTokenTTL})
}

package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/app"
	"github.com/polkiloo/ordertrack/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
	fx.Provide(Setup),
)

package config

import "go.uber.org/fx"

// Module loads Config once per fx graph.
var Module = fx.Provide(Load)

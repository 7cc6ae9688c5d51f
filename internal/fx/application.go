package fx

import (
	"go.uber.org/fx"

	"pfengine/internal/config"
)

// Application creates the main FX application wiring the engine's server
// mode: configuration, logging, the audit store, the result cache, the gin
// router, the background janitor, and the HTTP server lifecycle.
func Application() *fx.App {
	options := []fx.Option{
		CoreModule,
		AppModule,
	}

	if config.IsProduction() {
		options = append(options, fx.NopLogger)
	}

	return fx.New(options...)
}

package providers

import "go.uber.org/fx"

// Module provides the provider registry
var Module = fx.Module("providers",
	fx.Provide(NewRegistryFromConfig),
)

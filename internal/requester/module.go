package requester

import (
	"go.uber.org/fx"
)

// Module provides the shared outbound HTTP client and requester
var Module = fx.Module("requester",
	fx.Provide(
		NewHTTPClient,
		NewHTTPRequester,
	),
)

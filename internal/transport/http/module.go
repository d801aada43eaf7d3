package http

import (
	"go.uber.org/fx"

	booktransport "github.com/Additional-Code/orderflow/internal/transport/http/book"
	ordertransport "github.com/Additional-Code/orderflow/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	booktransport.Module,
)

package order

import (
	"go.uber.org/fx"

	ordersvc "github.com/Additional-Code/orderflow/internal/service/order"
)

// Module provides the order repository to Fx as the order service's store.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(ordersvc.Store))),
)

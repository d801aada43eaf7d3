package inventory

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/orderflow/internal/validation"
)

// Module provides the inventory repository to Fx as the chain's stock reader.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(validation.StockReader))),
)

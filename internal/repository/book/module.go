package book

import (
	"go.uber.org/fx"

	booksvc "github.com/Additional-Code/orderflow/internal/service/book"
)

// Module provides the book repository to Fx as the catalog service's store.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(booksvc.Store))),
)

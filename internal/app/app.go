package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/orderflow/internal/cache"
	"github.com/Additional-Code/orderflow/internal/config"
	"github.com/Additional-Code/orderflow/internal/database"
	"github.com/Additional-Code/orderflow/internal/logger"
	"github.com/Additional-Code/orderflow/internal/messaging"
	"github.com/Additional-Code/orderflow/internal/observability"
	"github.com/Additional-Code/orderflow/internal/payment"
	repositorybook "github.com/Additional-Code/orderflow/internal/repository/book"
	repositoryinventory "github.com/Additional-Code/orderflow/internal/repository/inventory"
	repositoryorder "github.com/Additional-Code/orderflow/internal/repository/order"
	grpcserver "github.com/Additional-Code/orderflow/internal/server/grpc"
	httpserver "github.com/Additional-Code/orderflow/internal/server/http"
	servicebook "github.com/Additional-Code/orderflow/internal/service/book"
	serviceorder "github.com/Additional-Code/orderflow/internal/service/order"
	transporthttp "github.com/Additional-Code/orderflow/internal/transport/http"
	"github.com/Additional-Code/orderflow/internal/validation"
	"github.com/Additional-Code/orderflow/internal/worker"
	workerorder "github.com/Additional-Code/orderflow/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	payment.Module,
	validation.Module,
	repositoryorder.Module,
	repositoryinventory.Module,
	repositorybook.Module,
	serviceorder.Module,
	servicebook.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// API additionally exposes the gRPC server next to HTTP.
var API = fx.Options(
	HTTP,
	grpcserver.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP

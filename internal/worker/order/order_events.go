package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/config"
	"github.com/Additional-Code/orderflow/internal/messaging"
	ordersvc "github.com/Additional-Code/orderflow/internal/service/order"
	"github.com/Additional-Code/orderflow/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/orderflow/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler consumes the order lifecycle topic and records what
// happened. Placement events are the interesting ones; everything else is
// logged at debug.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.String("order.event", event.Type))

		switch event.Type {
		case ordersvc.EventOrderPlaced:
			logger.Info("order placed event processed",
				zap.Int64("id", event.ID),
				zap.String("number", event.Number),
				zap.Float64("total", event.TotalAmount),
			)
		case ordersvc.EventOrderCreated:
			logger.Info("order created event processed",
				zap.Int64("id", event.ID),
				zap.String("number", event.Number),
				zap.String("status", event.Status),
			)
		default:
			logger.Debug("ignoring unknown order event", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}

package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/cache"
	"github.com/Additional-Code/orderflow/internal/config"
	"github.com/Additional-Code/orderflow/internal/entity"
	"github.com/Additional-Code/orderflow/internal/messaging"
	"github.com/Additional-Code/orderflow/internal/payment"
	"github.com/Additional-Code/orderflow/internal/validation"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/orderflow/service/order")

// Store is the persistence collaborator for orders.
type Store interface {
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates business logic around orders, including the
// validate-and-place pipeline.
type Service struct {
	store      Store
	chain      *validation.Chain
	strategies *payment.Registry
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *zap.Logger
	publisher  messaging.Client
	messaging  messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store      Store
	Chain      *validation.Chain
	Strategies *payment.Registry
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:      p.Store,
		chain:      p.Chain,
		strategies: p.Strategies,
		cache:      p.Cache,
		cacheTTL:   p.Config.Cache.DefaultTTL,
		logger:     p.Logger,
		publisher:  p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			return nil, errorbank.NotFound("order not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return order, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Create validates and persists a new pending order together with its payment
// details and items, then announces it on the bus.
func (s *Service) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errorbank.BadRequest("order payload is required")
	}
	if err := validateOrderShape(order); err != nil {
		return err
	}

	if order.Number == "" {
		order.Number = "ORD-" + uuid.NewString()
	}
	if order.Status == "" {
		order.Status = entity.StatusPending
	} else if !order.Status.Valid() {
		return errorbank.BadRequest(fmt.Sprintf("unknown order status: %s", order.Status))
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if err := s.store.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, EventOrderCreated, order)
	return nil
}

// UpdateParams carries the replacement state for an order update.
type UpdateParams struct {
	CustomerName   string
	TotalAmount    float64
	Status         entity.Status
	PaymentDetails *entity.PaymentDetails
}

// Update replaces the mutable fields of an order. Moving the status to
// PENDING from a terminal state is treated as an explicit reset; other status
// changes go through the one-directional transition rules.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if params.TotalAmount < 0 {
		return nil, errorbank.BadRequest("total amount must not be negative")
	}
	if strings.TrimSpace(params.CustomerName) == "" {
		return nil, errorbank.BadRequest("customer name is required")
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, errorbank.BadRequest(fmt.Sprintf("unknown order status: %s", params.Status))
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			return nil, errorbank.NotFound("order not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	order.CustomerName = params.CustomerName
	order.TotalAmount = params.TotalAmount
	order.UpdatedAt = time.Now().UTC()
	if params.PaymentDetails != nil {
		order.PaymentDetails = params.PaymentDetails
	}

	if params.Status != "" && params.Status != order.Status {
		if params.Status == entity.StatusPending {
			order.Reset()
		} else if err := order.Transition(params.Status); err != nil {
			return nil, errorbank.Conflict("invalid status change", errorbank.WithCause(err))
		}
	}

	if err := s.store.Update(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return order, nil
}

// Delete removes an order and its owned payment details.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			return errorbank.NotFound("order not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil && s.logger != nil {
			s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	return nil
}

// PlaceOrder runs the full placement pipeline for an order id: look the order
// up, run the validation chain, charge through the payment strategy, and only
// then mark the order PLACED and persist. Any failure leaves the stored order
// untouched; there is no compensating rollback.
func (s *Service) PlaceOrder(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			return nil, errorbank.NotFound("order not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	// Terminal orders are rejected before any validation or charging happens.
	if order.Status != entity.StatusPending {
		return nil, errorbank.Conflict("order cannot be placed",
			errorbank.WithCause(&entity.InvalidTransitionError{From: order.Status, To: entity.StatusPlaced}))
	}

	if err := s.chain.Run(ctx, order); err != nil {
		return nil, mapValidationError(err)
	}

	strategy, err := s.strategies.Select(order.PaymentDetails.Method)
	if err != nil {
		return nil, errorbank.BadRequest("unsupported payment method",
			errorbank.WithCause(err),
			errorbank.WithDetail("method", order.PaymentDetails.Method),
		)
	}

	approved, err := strategy.Pay(ctx, order.PaymentDetails, order.TotalAmount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "charge failed")
		return nil, errorbank.Internal("payment execution failed", errorbank.WithCause(err))
	}
	if !approved {
		return nil, errorbank.Unprocessable("payment declined", errorbank.WithCause(payment.ErrDeclined))
	}

	if err := order.Transition(entity.StatusPlaced); err != nil {
		return nil, errorbank.Conflict("order cannot be placed", errorbank.WithCause(err))
	}

	if err := s.store.Update(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to persist placed order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("order placed",
			zap.Int64("id", order.ID),
			zap.String("number", order.Number),
			zap.Float64("total", order.TotalAmount),
		)
	}

	s.publishEvent(ctx, EventOrderPlaced, order)
	return order, nil
}

// mapValidationError wraps chain failures in transport-ready errors while
// keeping the typed cause reachable through errors.As.
func mapValidationError(err error) error {
	var short *validation.InsufficientInventoryError
	if errors.As(err, &short) {
		return errorbank.Unprocessable("insufficient inventory",
			errorbank.WithCause(err),
			errorbank.WithDetail("product_id", short.ProductID),
			errorbank.WithDetail("requested", short.Requested),
			errorbank.WithDetail("available", short.Available),
		)
	}

	var invalid *validation.InvalidPaymentError
	if errors.As(err, &invalid) {
		return errorbank.Unprocessable("invalid payment details",
			errorbank.WithCause(err),
			errorbank.WithDetail("reason", invalid.Reason),
		)
	}

	return errorbank.Internal("order validation failed", errorbank.WithCause(err))
}

func validateOrderShape(order *entity.Order) error {
	if order.TotalAmount < 0 {
		return errorbank.BadRequest("total amount must not be negative")
	}
	if strings.TrimSpace(order.CustomerName) == "" {
		return errorbank.BadRequest("customer name is required")
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return errorbank.BadRequest("item quantity must be positive",
				errorbank.WithDetail("product_id", item.ProductID))
		}
	}
	return nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := Event{
		Type:        eventType,
		ID:          order.ID,
		Number:      order.Number,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.String("type", eventType), zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

// Event types emitted on the order topic.
const (
	EventOrderCreated = "order.created"
	EventOrderPlaced  = "order.placed"
)

// Event is the envelope published for order lifecycle changes.
type Event struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

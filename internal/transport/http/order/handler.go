package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderflow/internal/dto"
	"github.com/Additional-Code/orderflow/internal/entity"
	"github.com/Additional-Code/orderflow/internal/presentation/http/response"
	service "github.com/Additional-Code/orderflow/internal/service/order"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/orderflow/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo group.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/place", h.place)
}

type paymentDetailsPayload struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
}

type itemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type orderPayload struct {
	CustomerName   string                 `json:"customer_name"`
	Status         string                 `json:"status"`
	TotalAmount    float64                `json:"total_amount"`
	PaymentDetails *paymentDetailsPayload `json:"payment_details"`
	Items          []itemPayload          `json:"items"`
}

func (p *orderPayload) paymentDetails() *entity.PaymentDetails {
	if p.PaymentDetails == nil {
		return nil
	}
	return &entity.PaymentDetails{
		Method:     p.PaymentDetails.Method,
		CardNumber: p.PaymentDetails.CardNumber,
	}
}

func (p *orderPayload) items() []*entity.OrderItem {
	items := make([]*entity.OrderItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, &entity.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, dto.FromOrder(order))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	order := &entity.Order{
		CustomerName:   payload.CustomerName,
		Status:         entity.Status(payload.Status),
		TotalAmount:    payload.TotalAmount,
		PaymentDetails: payload.paymentDetails(),
		Items:          payload.items(),
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	if err := h.svc.Create(ctx, order); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Update(ctx, id, service.UpdateParams{
		CustomerName:   payload.CustomerName,
		TotalAmount:    payload.TotalAmount,
		Status:         entity.Status(payload.Status),
		PaymentDetails: payload.paymentDetails(),
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func (h *Handler) place(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.place", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.PlaceOrder(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}

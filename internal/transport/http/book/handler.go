package book

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
	service "github.com/Additional-Code/orderflow/internal/service/book"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/orderflow/transport/http/book")

// Handler exposes catalog endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a book Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo group.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/books")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type bookPayload struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Featured bool    `json:"featured"`
}

func (p *bookPayload) toEntity() *entity.Book {
	return &entity.Book{
		Title:    p.Title,
		Author:   p.Author,
		Price:    p.Price,
		Featured: p.Featured,
	}
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	featuredOnly, _ := strconv.ParseBool(c.QueryParam("featured"))

	ctx, span := httpTracer.Start(c.Request().Context(), "books.list", trace.WithAttributes(attribute.Bool("featured_only", featuredOnly)))
	defer span.End()

	books, err := h.svc.List(ctx, featuredOnly)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.BookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, dto.FromBook(book))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "books.getByID", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromBook(book)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload bookPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "books.create")
	defer span.End()

	book := payload.toEntity()
	if err := h.svc.Create(ctx, book); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.FromBook(book)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload bookPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "books.update", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	book, err := h.svc.Update(ctx, id, payload.toEntity())
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromBook(book)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "books.delete", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}

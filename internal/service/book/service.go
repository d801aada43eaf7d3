package book

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/entity"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/orderflow/service/book")

// Store is the persistence collaborator for catalog books.
type Store interface {
	GetByID(ctx context.Context, id int64) (*entity.Book, error)
	List(ctx context.Context, featuredOnly bool) ([]*entity.Book, error)
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id int64) error
}

// Service is the thin catalog facade over the book store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store  Store
	Logger *zap.Logger
}

// Module provides the book service to Fx.
var Module = fx.Provide(NewService)

// NewService wires a new catalog Service.
func NewService(p Params) *Service {
	return &Service{store: p.Store, logger: p.Logger}
}

// Get fetches a single book.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Book, error) {
	ctx, span := serviceTracer.Start(ctx, "BookService.Get", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	book, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrBookNotFound) {
			return nil, errorbank.NotFound("book not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to load book", errorbank.WithCause(err))
	}
	return book, nil
}

// List returns the catalog, optionally filtered to featured books.
func (s *Service) List(ctx context.Context, featuredOnly bool) ([]*entity.Book, error) {
	ctx, span := serviceTracer.Start(ctx, "BookService.List", trace.WithAttributes(attribute.Bool("featured_only", featuredOnly)))
	defer span.End()

	books, err := s.store.List(ctx, featuredOnly)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to list books", errorbank.WithCause(err))
	}
	return books, nil
}

// Create validates and persists a new book.
func (s *Service) Create(ctx context.Context, book *entity.Book) error {
	if book == nil {
		return errorbank.BadRequest("book payload is required")
	}
	if strings.TrimSpace(book.Title) == "" || strings.TrimSpace(book.Author) == "" {
		return errorbank.BadRequest("title and author are required")
	}
	if book.Price < 0 {
		return errorbank.BadRequest("price must not be negative")
	}

	ctx, span := serviceTracer.Start(ctx, "BookService.Create", trace.WithAttributes(attribute.String("book.title", book.Title)))
	defer span.End()

	if err := s.store.Create(ctx, book); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to create book", errorbank.WithCause(err))
	}
	return nil
}

// Update rewrites an existing book's fields.
func (s *Service) Update(ctx context.Context, id int64, book *entity.Book) (*entity.Book, error) {
	if book == nil {
		return nil, errorbank.BadRequest("book payload is required")
	}
	if book.Price < 0 {
		return nil, errorbank.BadRequest("price must not be negative")
	}

	ctx, span := serviceTracer.Start(ctx, "BookService.Update", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrBookNotFound) {
			return nil, errorbank.NotFound("book not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		return nil, errorbank.Internal("failed to load book", errorbank.WithCause(err))
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.Price = book.Price
	existing.Featured = book.Featured

	if err := s.store.Update(ctx, existing); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to update book", errorbank.WithCause(err))
	}
	return existing, nil
}

// Delete removes a book from the catalog.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "BookService.Delete", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrBookNotFound) {
			return errorbank.NotFound("book not found", errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to delete book", errorbank.WithCause(err))
	}
	return nil
}

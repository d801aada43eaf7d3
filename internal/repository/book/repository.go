package book

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderflow/internal/database"
	"github.com/Additional-Code/orderflow/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/orderflow/repository/book")

// Repository encapsulates read/write access for catalog books.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// GetByID fetches a book by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Book, error) {
	ctx, span := repoTracer.Start(ctx, "BookRepository.GetByID", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	book := new(entity.Book)
	err := r.reader.NewSelect().Model(book).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, entity.ErrBookNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return book, nil
}

// List returns catalog books, optionally only featured ones.
func (r *Repository) List(ctx context.Context, featuredOnly bool) ([]*entity.Book, error) {
	ctx, span := repoTracer.Start(ctx, "BookRepository.List", trace.WithAttributes(attribute.Bool("featured_only", featuredOnly)))
	defer span.End()

	var books []*entity.Book
	q := r.reader.NewSelect().Model(&books).Order("id ASC")
	if featuredOnly {
		q = q.Where("featured = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return books, nil
}

// Create persists a new book.
func (r *Repository) Create(ctx context.Context, book *entity.Book) error {
	if book == nil {
		return errors.New("nil book")
	}
	ctx, span := repoTracer.Start(ctx, "BookRepository.Create", trace.WithAttributes(attribute.String("book.title", book.Title)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(book).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Update rewrites a book row.
func (r *Repository) Update(ctx context.Context, book *entity.Book) error {
	if book == nil {
		return errors.New("nil book")
	}
	ctx, span := repoTracer.Start(ctx, "BookRepository.Update", trace.WithAttributes(attribute.Int64("book.id", book.ID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model(book).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrBookNotFound
	}
	return nil
}

// Delete removes a book by primary key.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "BookRepository.Delete", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Book)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrBookNotFound
	}
	return nil
}

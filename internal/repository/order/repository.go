package order

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

var repoTracer = otel.Tracer("github.com/Additional-Code/orderflow/repository/order")

// Repository encapsulates read/write access for orders together with their
// owned payment details and line items.
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

// GetByID fetches an order with its payment details and items, using the read
// replica when available. Items come back in insertion order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).
		Relation("PaymentDetails").
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("id ASC")
		}).
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns all orders, newest first, without relations.
func (r *Repository) List(ctx context.Context) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []*entity.Order
	if err := r.reader.NewSelect().Model(&orders).Order("id DESC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Create persists the order, its owned payment details, and its items in one
// transaction.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if order.PaymentDetails != nil {
			if _, err := tx.NewInsert().Model(order.PaymentDetails).Exec(ctx); err != nil {
				return err
			}
			order.PaymentDetailsID = order.PaymentDetails.ID
		}

		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}

		for _, item := range order.Items {
			item.OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if _, err := tx.NewInsert().Model(&order.Items).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Update rewrites the order row and replaces its payment details when a new
// payment instrument is attached.
func (r *Repository) Update(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Update", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// A fresh instrument has no id yet; persist it before the order row
		// points at it, then drop whatever it replaced.
		if order.PaymentDetails != nil && order.PaymentDetails.ID == 0 {
			previousID := order.PaymentDetailsID
			if _, err := tx.NewInsert().Model(order.PaymentDetails).Exec(ctx); err != nil {
				return err
			}
			order.PaymentDetailsID = order.PaymentDetails.ID
			if previousID != 0 {
				if _, err := tx.NewDelete().Model((*entity.PaymentDetails)(nil)).Where("id = ?", previousID).Exec(ctx); err != nil {
					return err
				}
			}
		}

		res, err := tx.NewUpdate().Model(order).
			Column("customer_name", "status", "total_amount", "payment_details_id", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err == nil && affected == 0 {
			return entity.ErrOrderNotFound
		}
		return err
	})
	if err != nil && !errors.Is(err, entity.ErrOrderNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes the order, its item references, and its owned payment
// details. Inventory rows are untouched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		order := new(entity.Order)
		err := tx.NewSelect().Model(order).Column("id", "payment_details_id").Where("o.id = ?", id).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.NewDelete().Model((*entity.OrderItem)(nil)).Where("order_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if order.PaymentDetailsID != 0 {
			if _, err := tx.NewDelete().Model((*entity.PaymentDetails)(nil)).Where("id = ?", order.PaymentDetailsID).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, entity.ErrOrderNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
	}
	return err
}

package inventory

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

var repoTracer = otel.Tracer("github.com/Additional-Code/orderflow/repository/inventory")

// Repository provides read access to inventory levels. The validation
// pipeline only queries stock; nothing here mutates it.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// AvailableQuantity reports the stock level for a product. Products without
// an inventory row report zero.
func (r *Repository) AvailableQuantity(ctx context.Context, productID int64) (int64, error) {
	ctx, span := repoTracer.Start(ctx, "InventoryRepository.AvailableQuantity", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	inv := new(entity.Inventory)
	err := r.reader.NewSelect().Model(inv).Where("product_id = ?", productID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return 0, err
	}
	return inv.AvailableQuantity, nil
}

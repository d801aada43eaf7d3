package validation

import (
	"context"
	"fmt"

	"github.com/Additional-Code/orderflow/internal/entity"
)

// StockReader reports how many units of a product are available. An unknown
// product reports zero rather than an error.
type StockReader interface {
	AvailableQuantity(ctx context.Context, productID int64) (int64, error)
}

// InsufficientInventoryError reports the first item whose requested quantity
// exceeds the available stock.
type InsufficientInventoryError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// InventoryStep verifies stock for every line item, in item-list order.
type InventoryStep struct {
	stock StockReader
}

// NewInventoryStep constructs the stock availability check.
func NewInventoryStep(stock StockReader) *InventoryStep {
	return &InventoryStep{stock: stock}
}

// Name identifies the step in traces and logs.
func (s *InventoryStep) Name() string { return "inventory" }

// Validate fails on the first item short on stock.
func (s *InventoryStep) Validate(ctx context.Context, order *entity.Order) error {
	for _, item := range order.Items {
		available, err := s.stock.AvailableQuantity(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("read inventory for product %d: %w", item.ProductID, err)
		}
		if item.Quantity > available {
			return &InsufficientInventoryError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: available,
			}
		}
	}
	return nil
}

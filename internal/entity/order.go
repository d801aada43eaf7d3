package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPlaced    Status = "PLACED"
	StatusCancelled Status = "CANCELLED"
)

// ErrOrderNotFound is returned by stores when an order is missing.
var ErrOrderNotFound = errors.New("order not found")

// InvalidTransitionError reports a forbidden status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot move from %s to %s", e.From, e.To)
}

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPlaced, StatusCancelled:
		return true
	}
	return false
}

// Order represents a purchase order stored in the relational database.
// PaymentDetails is owned by the order and deleted with it; items reference
// products and survive the order.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID               int64           `bun:",pk,autoincrement"`
	Number           string          `bun:"number"`
	CustomerName     string          `bun:"customer_name"`
	Status           Status          `bun:"status"`
	TotalAmount      float64         `bun:"total_amount"`
	PaymentDetailsID int64           `bun:"payment_details_id,nullzero"`
	PaymentDetails   *PaymentDetails `bun:"rel:belongs-to,join:payment_details_id=id"`
	Items            []*OrderItem    `bun:"rel:has-many,join:id=order_id"`
	CreatedAt        time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `bun:"updated_at,nullzero"`
}

// Transition moves the order to a new status. Transitions are one-directional:
// a pending order may be placed or cancelled; placed and cancelled orders stay
// where they are until Reset is called.
func (o *Order) Transition(to Status) error {
	if !to.Valid() {
		return &InvalidTransitionError{From: o.Status, To: to}
	}
	if o.Status == to {
		return nil
	}
	if o.Status != StatusPending {
		return &InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset returns the order to PENDING, the only way back from a terminal state.
func (o *Order) Reset() {
	o.Status = StatusPending
	o.UpdatedAt = time.Now().UTC()
}

// OrderItem is a single line of an order referencing a product.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID        int64 `bun:",pk,autoincrement"`
	OrderID   int64 `bun:"order_id"`
	ProductID int64 `bun:"product_id"`
	Quantity  int64 `bun:"quantity"`
}

// PaymentDetails holds the payment instrument attached to one order.
type PaymentDetails struct {
	bun.BaseModel `bun:"table:payment_details"`

	ID         int64  `bun:",pk,autoincrement"`
	Method     string `bun:"method"`
	CardNumber string `bun:"card_number"`
}

// Inventory tracks the available quantity for a product. The validation
// pipeline only reads it.
type Inventory struct {
	bun.BaseModel `bun:"table:inventories"`

	ID                int64     `bun:",pk,autoincrement"`
	ProductID         int64     `bun:"product_id"`
	AvailableQuantity int64     `bun:"available_quantity"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero"`
}

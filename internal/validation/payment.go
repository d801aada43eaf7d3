package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Additional-Code/orderflow/internal/entity"
)

// InvalidPaymentError reports malformed or missing payment details.
type InvalidPaymentError struct {
	Reason string
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("invalid payment details: %s", e.Reason)
}

// PaymentStep checks that payment details are well-formed. It never contacts
// the gateway; charging is a separate concern handled after validation.
type PaymentStep struct{}

// NewPaymentStep constructs the payment details check.
func NewPaymentStep() *PaymentStep {
	return &PaymentStep{}
}

// Name identifies the step in traces and logs.
func (s *PaymentStep) Name() string { return "payment" }

// Validate fails when payment details are absent or the card number is blank.
func (s *PaymentStep) Validate(ctx context.Context, order *entity.Order) error {
	details := order.PaymentDetails
	if details == nil {
		return &InvalidPaymentError{Reason: "payment details are missing"}
	}
	if strings.TrimSpace(details.CardNumber) == "" {
		return &InvalidPaymentError{Reason: "card number is missing"}
	}
	return nil
}

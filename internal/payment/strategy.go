// Package payment executes the charge for a validated order. Strategies are
// interchangeable per payment method; the actual money movement is delegated
// to a Gateway collaborator so that the simulated gateway can be swapped for a
// real processor or a deterministic test double.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/entity"
)

// MethodCreditCard is the payment method tag handled by the credit card
// strategy.
const MethodCreditCard = "CREDIT_CARD"

// ErrDeclined marks a normal gateway rejection of an otherwise valid charge.
var ErrDeclined = errors.New("payment declined by gateway")

// UnknownMethodError reports a payment method no strategy handles.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("no payment strategy for method %q", e.Method)
}

// Strategy charges an amount against the supplied payment details. A decline
// is reported as (false, nil); errors are reserved for malformed
// preconditions and transport failures.
type Strategy interface {
	Pay(ctx context.Context, details *entity.PaymentDetails, amount float64) (bool, error)
}

// Gateway is the external processor a strategy delegates to.
type Gateway interface {
	Charge(ctx context.Context, cardNumber string, amount float64) (bool, error)
}

// CreditCard charges card payments through a gateway.
type CreditCard struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewCreditCard constructs the credit card strategy.
func NewCreditCard(gateway Gateway, logger *zap.Logger) *CreditCard {
	return &CreditCard{gateway: gateway, logger: logger}
}

// Pay runs the charge through the gateway.
func (c *CreditCard) Pay(ctx context.Context, details *entity.PaymentDetails, amount float64) (bool, error) {
	if details == nil || strings.TrimSpace(details.CardNumber) == "" {
		return false, errors.New("credit card payment requires a card number")
	}
	if amount < 0 {
		return false, fmt.Errorf("invalid charge amount: %f", amount)
	}

	approved, err := c.gateway.Charge(ctx, details.CardNumber, amount)
	if err != nil {
		return false, fmt.Errorf("charge gateway: %w", err)
	}
	if !approved && c.logger != nil {
		c.logger.Info("credit card charge declined", zap.Float64("amount", amount))
	}
	return approved, nil
}

// Registry selects a strategy by payment method tag.
type Registry struct {
	strategies map[string]Strategy
}

// Module wires the gateway and the strategy registry into Fx.
var Module = fx.Provide(NewGateway, NewRegistry)

// NewRegistry builds the registry with the built-in strategies.
func NewRegistry(gateway Gateway, logger *zap.Logger) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	r.Register(MethodCreditCard, NewCreditCard(gateway, logger))
	return r
}

// Register installs a strategy for a method tag, replacing any previous one.
func (r *Registry) Register(method string, strategy Strategy) {
	r.strategies[normalizeMethod(method)] = strategy
}

// Select returns the strategy for the method, or an UnknownMethodError.
func (r *Registry) Select(method string) (Strategy, error) {
	strategy, ok := r.strategies[normalizeMethod(method)]
	if !ok {
		return nil, &UnknownMethodError{Method: method}
	}
	return strategy, nil
}

func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

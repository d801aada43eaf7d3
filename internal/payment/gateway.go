package payment

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/config"
)

// NewGateway builds the configured gateway implementation.
func NewGateway(cfg config.Config, logger *zap.Logger) (Gateway, error) {
	switch cfg.Payment.GatewayDriver {
	case "simulated":
		return &simulatedGateway{rate: cfg.Payment.SuccessRate, logger: logger}, nil
	case "noop":
		if logger != nil {
			logger.Info("payment gateway disabled; approving all charges")
		}
		return noopGateway{}, nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway driver: %s", cfg.Payment.GatewayDriver)
	}
}

// simulatedGateway approves charges with a fixed probability. It stands in
// for a real processor during development; tests should inject their own
// Gateway instead of relying on the randomness.
type simulatedGateway struct {
	rate   float64
	logger *zap.Logger
}

func (g *simulatedGateway) Charge(_ context.Context, _ string, amount float64) (bool, error) {
	approved := rand.Float64() < g.rate
	if g.logger != nil {
		g.logger.Debug("simulated gateway charge",
			zap.Float64("amount", amount),
			zap.Bool("approved", approved),
		)
	}
	return approved, nil
}

// noopGateway approves everything.
type noopGateway struct{}

func (noopGateway) Charge(context.Context, string, float64) (bool, error) {
	return true, nil
}

package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderflow/internal/database"
	"github.com/Additional-Code/orderflow/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// All runs every seeder.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Inventory(ctx); err != nil {
		return err
	}
	if err := s.Books(ctx); err != nil {
		return err
	}
	return s.Orders(ctx)
}

// Inventory seeds stock levels for the demo products.
func (s *Seeder) Inventory(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Inventory{
		{ProductID: 1, AvailableQuantity: 5, UpdatedAt: now},
		{ProductID: 2, AvailableQuantity: 3, UpdatedAt: now},
		{ProductID: 3, AvailableQuantity: 100, UpdatedAt: now},
	}

	for _, sample := range samples {
		inv := sample
		_, err := s.db.NewInsert().Model(&inv).
			On("CONFLICT (product_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded inventory", zap.Int("count", len(samples)))
	}
	return nil
}

// Books seeds the demo catalog.
func (s *Seeder) Books(ctx context.Context) error {
	samples := []entity.Book{
		{Title: "Design Patterns", Author: "Gamma, Helm, Johnson, Vlissides", Price: 54.99, Featured: true},
		{Title: "Refactoring", Author: "Martin Fowler", Price: 47.99, Featured: true},
		{Title: "Domain-Driven Design", Author: "Eric Evans", Price: 59.99},
	}

	for _, sample := range samples {
		book := sample
		_, err := s.db.NewInsert().Model(&book).
			On("CONFLICT (title) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded books", zap.Int("count", len(samples)))
	}
	return nil
}

// Orders seeds a couple of pending orders if they are missing.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{
			Number:       "ORD-1000",
			CustomerName: "Ada Lovelace",
			Status:       entity.StatusPending,
			TotalAmount:  49.90,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Number:       "ORD-1001",
			CustomerName: "Grace Hopper",
			Status:       entity.StatusPending,
			TotalAmount:  120.00,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}

package order

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/Additional-Code/orderflow/internal/database"
	"github.com/Additional-Code/orderflow/internal/entity"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	for _, model := range []any{
		(*entity.PaymentDetails)(nil),
		(*entity.Order)(nil),
		(*entity.OrderItem)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return NewRepository(&database.Connections{Writer: db, Reader: db})
}

func countPaymentDetails(t *testing.T, repo *Repository) int {
	t.Helper()
	count, err := repo.reader.NewSelect().Model((*entity.PaymentDetails)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestUpdateAttachesPaymentDetails(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := &entity.Order{
		Number:       "ORD-100",
		CustomerName: "Ada",
		Status:       entity.StatusPending,
		TotalAmount:  40,
	}
	require.NoError(t, repo.Create(ctx, order))
	require.Zero(t, order.PaymentDetailsID)

	order.PaymentDetails = &entity.PaymentDetails{
		Method:     "CREDIT_CARD",
		CardNumber: "4111111111111111",
	}
	require.NoError(t, repo.Update(ctx, order))
	assert.NotZero(t, order.PaymentDetailsID)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaymentDetails, "payment details attached via Update must persist")
	assert.Equal(t, "4111111111111111", got.PaymentDetails.CardNumber)
	assert.Equal(t, got.PaymentDetails.ID, got.PaymentDetailsID)
}

func TestUpdateReplacesPaymentDetails(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := &entity.Order{
		Number:       "ORD-101",
		CustomerName: "Ada",
		Status:       entity.StatusPending,
		TotalAmount:  40,
		PaymentDetails: &entity.PaymentDetails{
			Method:     "CREDIT_CARD",
			CardNumber: "4111111111111111",
		},
	}
	require.NoError(t, repo.Create(ctx, order))
	previousID := order.PaymentDetailsID
	require.NotZero(t, previousID)

	order.PaymentDetails = &entity.PaymentDetails{
		Method:     "CREDIT_CARD",
		CardNumber: "5555555555554444",
	}
	require.NoError(t, repo.Update(ctx, order))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaymentDetails)
	assert.Equal(t, "5555555555554444", got.PaymentDetails.CardNumber)
	assert.NotEqual(t, previousID, got.PaymentDetailsID)

	// The replaced instrument is gone; only the new row remains.
	assert.Equal(t, 1, countPaymentDetails(t, repo))
}

func TestUpdateKeepsExistingPaymentDetails(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := &entity.Order{
		Number:       "ORD-102",
		CustomerName: "Ada",
		Status:       entity.StatusPending,
		TotalAmount:  40,
		PaymentDetails: &entity.PaymentDetails{
			Method:     "CREDIT_CARD",
			CardNumber: "4111111111111111",
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	// A round-tripped order carries its persisted instrument; updating it
	// must not duplicate the row.
	loaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	loaded.CustomerName = "Grace"
	require.NoError(t, repo.Update(ctx, loaded))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.CustomerName)
	assert.Equal(t, order.PaymentDetailsID, got.PaymentDetailsID)
	assert.Equal(t, 1, countPaymentDetails(t, repo))
}

func TestUpdateMissingOrder(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Update(context.Background(), &entity.Order{
		ID:           9999,
		CustomerName: "Nobody",
		Status:       entity.StatusPending,
	})
	assert.ErrorIs(t, err, entity.ErrOrderNotFound)
}

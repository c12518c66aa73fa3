package orders

import (
	"context"
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  freelancer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL,
  requirements TEXT NOT NULL,
  created_at DATETIME,
  completed_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		ListingID:    uuid.New(),
		FreelancerID: uuid.New(),
		Status:       status,
		TotalAmount:  decimal.RequireFromString("99.50"),
		Requirements: "seed",
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		ListingID:    uuid.New(),
		FreelancerID: uuid.New(),
		Status:       enums.OrderStatusPending,
		TotalAmount:  decimal.RequireFromString("150.00"),
		Requirements: "three concepts",
	}
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.True(t, found.TotalAmount.Equal(order.TotalAmount))
	assert.Equal(t, "three concepts", found.Requirements)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusPaid}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
}

func TestRepositoryFindPendingBefore(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := seedOrder(t, db, enums.OrderStatusPending, now.Add(-48*time.Hour))
	seedOrder(t, db, enums.OrderStatusPending, now.Add(-1*time.Hour))
	seedOrder(t, db, enums.OrderStatusPaid, now.Add(-48*time.Hour))

	rows, err := repo.FindPendingBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

package analytics

import (
	"context"
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListingOrderCount is one row of the trending aggregation.
type ListingOrderCount struct {
	ListingID  uuid.UUID `gorm:"column:listing_id"`
	OrderCount int64     `gorm:"column:order_count"`
}

// ListingOwnerRow joins a listing with its owner's display name.
type ListingOwnerRow struct {
	ListingID      uuid.UUID       `gorm:"column:listing_id"`
	Title          string          `gorm:"column:title"`
	Price          decimal.Decimal `gorm:"column:price"`
	IsActive       bool            `gorm:"column:is_active"`
	FreelancerName string          `gorm:"column:freelancer_name"`
}

// Repository exposes the aggregate queries behind dashboards.
type Repository interface {
	CountActiveListings(ctx context.Context, freelancerID uuid.UUID) (int64, error)
	CountOrdersReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error)
	CountOrdersReceivedWithStatus(ctx context.Context, freelancerID uuid.UUID, status string) (int64, error)
	SumCompletedEarnings(ctx context.Context, freelancerID uuid.UUID) (decimal.Decimal, error)
	CountOrdersPlaced(ctx context.Context, clientID uuid.UUID) (int64, error)
	CountOrdersPlacedWithStatus(ctx context.Context, clientID uuid.UUID, status string) (int64, error)
	SumCompletedSpend(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)
	OrderCountsSince(ctx context.Context, cutoff time.Time) ([]ListingOrderCount, error)
	FindListingsWithOwner(ctx context.Context, ids []uuid.UUID) ([]ListingOwnerRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountActiveListings(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("freelancer_id = ? AND is_active = ?", freelancerID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("freelancer_id = ?", freelancerID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersReceivedWithStatus(ctx context.Context, freelancerID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("freelancer_id = ? AND status = ?", freelancerID, status).
		Count(&count).Error
	return count, err
}

func (r *repository) SumCompletedEarnings(ctx context.Context, freelancerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumOrders(ctx, "freelancer_id", freelancerID)
}

func (r *repository) CountOrdersPlaced(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersPlacedWithStatus(ctx context.Context, clientID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_id = ? AND status = ?", clientID, status).
		Count(&count).Error
	return count, err
}

func (r *repository) SumCompletedSpend(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	return r.sumOrders(ctx, "client_id", clientID)
}

func (r *repository) sumOrders(ctx context.Context, column string, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where(column+" = ? AND status = ?", userID, "completed").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) OrderCountsSince(ctx context.Context, cutoff time.Time) ([]ListingOrderCount, error) {
	var rows []ListingOrderCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("listing_id, COUNT(*) AS order_count").
		Where("created_at >= ?", cutoff).
		Group("listing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindListingsWithOwner(ctx context.Context, ids []uuid.UUID) ([]ListingOwnerRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []ListingOwnerRow
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select("listings.id AS listing_id, listings.title, listings.price, listings.is_active, users.username AS freelancer_name").
		Joins("JOIN users ON users.id = listings.freelancer_id").
		Where("listings.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

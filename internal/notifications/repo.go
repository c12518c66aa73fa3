package notifications

import (
	"context"
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the counts the notification feed is built from.
type Repository interface {
	CountPendingReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error)
	CountPlacedSince(ctx context.Context, clientID uuid.UUID, since time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a notifications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountPendingReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("freelancer_id = ? AND status = ?", freelancerID, "pending").
		Count(&count).Error
	return count, err
}

func (r *repository) CountPlacedSince(ctx context.Context, clientID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_id = ? AND created_at >= ?", clientID, since).
		Count(&count).Error
	return count, err
}

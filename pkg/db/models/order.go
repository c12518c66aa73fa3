package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freelancehub/freelancehub-backend/pkg/enums"
)

// Order is a commission placed by a client against a listing. TotalAmount
// snapshots the listing price at creation time and never re-reads it.
type Order struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID     uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	ListingID    uuid.UUID         `gorm:"column:listing_id;type:uuid;not null;index"`
	FreelancerID uuid.UUID         `gorm:"column:freelancer_id;type:uuid;not null;index"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Requirements string            `gorm:"column:requirements;type:text;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	CompletedAt  *time.Time        `gorm:"column:completed_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

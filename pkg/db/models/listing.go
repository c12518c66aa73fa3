package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is a unit of work a freelancer offers for a fixed price.
type Listing struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string          `gorm:"type:text;not null"`
	Description  string          `gorm:"type:text;not null"`
	Category     string          `gorm:"type:text;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DeliveryDays int             `gorm:"column:delivery_days;not null"`
	FreelancerID uuid.UUID       `gorm:"column:freelancer_id;type:uuid;not null;index"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

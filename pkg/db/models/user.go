package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents the canonical identity entity. A user acts as a client
// on orders it places and as a freelancer on listings it owns.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string           `gorm:"type:text;not null;uniqueIndex"`
	Email        string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	IsFreelancer bool             `gorm:"column:is_freelancer;not null;default:false"`
	Bio          *string          `gorm:"column:bio"`
	Skills       *string          `gorm:"column:skills"`
	HourlyRate   *decimal.Decimal `gorm:"column:hourly_rate;type:numeric(10,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freelancehub/freelancehub-backend/pkg/enums"
)

// Payment records one charge attempt against an order. TransactionID is the
// idempotency token surfaced to the payer; a partial unique index enforces
// at most one completed payment per order.
type Payment struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method        string              `gorm:"column:method;type:text;not null;default:'credit_card'"`
	CardLast4     string              `gorm:"column:card_last4;type:text;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TransactionID string              `gorm:"column:transaction_id;type:text;not null;uniqueIndex"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	CompletedAt   *time.Time          `gorm:"column:completed_at"`
}

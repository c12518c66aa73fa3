package controllers

import (
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
)

// UserDTO is the public shape of a user. The password hash never leaves
// the service layer.
type UserDTO struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsFreelancer bool      `json:"is_freelancer"`
	Bio          *string   `json:"bio,omitempty"`
	Skills       *string   `json:"skills,omitempty"`
	HourlyRate   *string   `json:"hourly_rate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := &UserDTO{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		IsFreelancer: user.IsFreelancer,
		Bio:          user.Bio,
		Skills:       user.Skills,
		CreatedAt:    user.CreatedAt,
	}
	if user.HourlyRate != nil {
		rate := user.HourlyRate.StringFixed(2)
		dto.HourlyRate = &rate
	}
	return dto
}

type ListingDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        string    `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
	FreelancerID string    `json:"freelancer_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func toListingDTO(listing *models.Listing) *ListingDTO {
	if listing == nil {
		return nil
	}
	return &ListingDTO{
		ID:           listing.ID.String(),
		Title:        listing.Title,
		Description:  listing.Description,
		Category:     listing.Category,
		Price:        listing.Price.StringFixed(2),
		DeliveryDays: listing.DeliveryDays,
		FreelancerID: listing.FreelancerID.String(),
		IsActive:     listing.IsActive,
		CreatedAt:    listing.CreatedAt,
	}
}

func toListingDTOs(listings []models.Listing) []*ListingDTO {
	out := make([]*ListingDTO, 0, len(listings))
	for i := range listings {
		out = append(out, toListingDTO(&listings[i]))
	}
	return out
}

type OrderDTO struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	ListingID    string     `json:"listing_id"`
	FreelancerID string     `json:"freelancer_id"`
	Status       string     `json:"status"`
	TotalAmount  string     `json:"total_amount"`
	Requirements string     `json:"requirements"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	return &OrderDTO{
		ID:           order.ID.String(),
		ClientID:     order.ClientID.String(),
		ListingID:    order.ListingID.String(),
		FreelancerID: order.FreelancerID.String(),
		Status:       order.Status.String(),
		TotalAmount:  order.TotalAmount.StringFixed(2),
		Requirements: order.Requirements,
		CreatedAt:    order.CreatedAt,
		CompletedAt:  order.CompletedAt,
	}
}

type PaymentDTO struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	Amount        string     `json:"amount"`
	Method        string     `json:"method"`
	CardLast4     string     `json:"card_last4"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func toPaymentDTO(payment *models.Payment) *PaymentDTO {
	if payment == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            payment.ID.String(),
		OrderID:       payment.OrderID.String(),
		Amount:        payment.Amount.StringFixed(2),
		Method:        payment.Method,
		CardLast4:     payment.CardLast4,
		Status:        payment.Status.String(),
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
		CompletedAt:   payment.CompletedAt,
	}
}

func toPaymentDTOs(payments []models.Payment) []*PaymentDTO {
	out := make([]*PaymentDTO, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentDTO(&payments[i]))
	}
	return out
}

package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/orders"
	pkgdb "github.com/freelancehub/freelancehub-backend/pkg/db"
	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(room string, ev realtime.Event) int
}

// Service processes payments against pending orders.
type Service interface {
	SubmitPayment(ctx context.Context, input SubmitPaymentInput) (*Receipt, error)
	ListForOrder(ctx context.Context, orderID, requesterID uuid.UUID) ([]models.Payment, error)
}

// SubmitPaymentInput carries a card authorization request. Card details are
// validated and discarded; only the last four digits are persisted.
type SubmitPaymentInput struct {
	OrderID    uuid.UUID
	PayerID    uuid.UUID
	CardNumber string
	CardExpiry string
	CardCVV    string
	CardHolder string
}

// Receipt is returned to the payer after a successful charge.
type Receipt struct {
	PaymentID     uuid.UUID
	TransactionID string
	Amount        string
	OrderStatus   enums.OrderStatus
}

type service struct {
	repo   Repository
	orders orders.Repository
	tx     txRunner
	events eventPublisher
	now    func() time.Time
	newTxn func() string
}

// ServiceParams configure the payments service.
type ServiceParams struct {
	Repo   Repository
	Orders orders.Repository
	Tx     txRunner
	Events eventPublisher
}

// NewService builds a payments service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{
		repo:   params.Repo,
		orders: params.Orders,
		tx:     params.Tx,
		events: params.Events,
		now:    time.Now,
		newTxn: uuid.NewString,
	}, nil
}

func (s *service) SubmitPayment(ctx context.Context, input SubmitPaymentInput) (*Receipt, error) {
	if input.PayerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var (
		payment *models.Payment
		order   *models.Order
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		paymentRepo := s.repo.WithTx(tx)

		// The row lock holds for the whole check-then-write so two
		// concurrent submissions for the same order serialize here.
		loaded, err := orderRepo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if pkgdb.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if loaded.ClientID != input.PayerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the order's client can pay")
		}
		if _, err := paymentRepo.FindCompletedByOrder(ctx, loaded.ID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order has already been paid")
		} else if !pkgdb.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payment")
		}
		if loaded.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("order is %s and cannot be paid", loaded.Status))
		}

		cardNumber, err := validateCard(input)
		if err != nil {
			return err
		}

		completedAt := s.now().UTC()
		record := &models.Payment{
			ID:            uuid.New(),
			OrderID:       loaded.ID,
			Amount:        loaded.TotalAmount,
			Method:        "credit_card",
			CardLast4:     cardNumber[len(cardNumber)-4:],
			Status:        enums.PaymentStatusCompleted,
			TransactionID: s.newTxn(),
			CompletedAt:   &completedAt,
		}
		if err := paymentRepo.Create(ctx, record); err != nil {
			if pkgdb.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "order has already been paid")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		if err := orderRepo.Update(ctx, loaded.ID, map[string]any{"status": enums.OrderStatusPaid}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}

		loaded.Status = enums.OrderStatusPaid
		payment = record
		order = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(realtime.UserRoom(order.FreelancerID.String()), realtime.Event{
		Name: "payment:received",
		Data: map[string]any{
			"order_id": order.ID.String(),
			"amount":   payment.Amount.StringFixed(2),
			"message":  fmt.Sprintf("Payment received for order %s", order.ID),
		},
	})

	return &Receipt{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount.StringFixed(2),
		OrderStatus:   order.Status,
	}, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID, requesterID uuid.UUID) ([]models.Payment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ClientID != requesterID && order.FreelancerID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this order")
	}

	rows, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return rows, nil
}

// validateCard checks the simulated card fields and returns the normalized
// card number on success.
func validateCard(input SubmitPaymentInput) (string, error) {
	number := normalizeCardNumber(input.CardNumber)
	expiry := strings.TrimSpace(input.CardExpiry)
	cvv := strings.TrimSpace(input.CardCVV)
	holder := strings.TrimSpace(input.CardHolder)

	if number == "" || expiry == "" || cvv == "" || holder == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "all card fields are required")
	}
	if !isDigits(number) || len(number) < 13 || len(number) > 19 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "card number must be 13 to 19 digits")
	}
	if !isDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cvv must be 3 or 4 digits")
	}
	return number, nil
}

func normalizeCardNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/listings"
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

// Service owns the order state machine.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	GetForParticipant(ctx context.Context, orderID, requesterID uuid.UUID) (*models.Order, error)
}

// CreateOrderInput captures an order placement request.
type CreateOrderInput struct {
	ClientID     uuid.UUID
	ListingID    uuid.UUID
	Requirements string
}

// TransitionInput captures a fulfillment state change request.
type TransitionInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	Target  enums.OrderStatus
}

type service struct {
	repo     Repository
	listings listings.Repository
	tx       txRunner
	events   eventPublisher
	now      func() time.Time
}

// ServiceParams configure the orders service.
type ServiceParams struct {
	Repo     Repository
	Listings listings.Repository
	Tx       txRunner
	Events   eventPublisher
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Listings == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{
		repo:     params.Repo,
		listings: params.Listings,
		tx:       params.Tx,
		events:   params.Events,
		now:      time.Now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	requirements := strings.TrimSpace(input.Requirements)
	if requirements == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requirements required")
	}

	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if !listing.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing is not active")
	}
	if listing.FreelancerID == input.ClientID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot order your own listing")
	}

	// Price is snapshotted here; later listing edits never change the order.
	order := &models.Order{
		ID:           uuid.New(),
		ClientID:     input.ClientID,
		ListingID:    listing.ID,
		FreelancerID: listing.FreelancerID,
		Status:       enums.OrderStatusPending,
		TotalAmount:  listing.Price,
		Requirements: requirements,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.events.Publish(realtime.UserRoom(order.FreelancerID.String()), realtime.Event{
		Name: "order:new",
		Data: map[string]any{
			"order_id":      order.ID.String(),
			"listing_id":    listing.ID.String(),
			"listing_title": listing.Title,
			"message":       fmt.Sprintf("New order received for %q", listing.Title),
		},
	})

	return order, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.Target == enums.OrderStatusPaid || input.Target == enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is managed by payment processing")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if pkgdb.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := authorizeTransition(loaded, input); err != nil {
			return err
		}
		if !loaded.Status.CanTransition(input.Target) {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("order cannot move from %s to %s", loaded.Status, input.Target))
		}

		updates := map[string]any{"status": input.Target}
		if input.Target == enums.OrderStatusCompleted {
			updates["completed_at"] = s.now().UTC()
		}
		if err := repo.Update(ctx, loaded.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		loaded.Status = input.Target
		if ts, ok := updates["completed_at"].(time.Time); ok {
			loaded.CompletedAt = &ts
		}
		order = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(order)
	return order, nil
}

func (s *service) GetForParticipant(ctx context.Context, orderID, requesterID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ClientID != requesterID && order.FreelancerID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this order")
	}
	return order, nil
}

func authorizeTransition(order *models.Order, input TransitionInput) error {
	isClient := order.ClientID == input.ActorID
	isFreelancer := order.FreelancerID == input.ActorID
	if !isClient && !isFreelancer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this order")
	}

	switch input.Target {
	case enums.OrderStatusInProgress, enums.OrderStatusCompleted:
		if !isFreelancer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the freelancer can fulfill an order")
		}
	case enums.OrderStatusCancelled:
		// Either participant may cancel while the state machine allows it.
	}
	return nil
}

func (s *service) publishStatusChange(order *models.Order) {
	data := map[string]any{
		"order_id": order.ID.String(),
		"status":   order.Status.String(),
	}
	ev := realtime.Event{Name: "order:status", Data: data}
	s.events.Publish(realtime.UserRoom(order.ClientID.String()), ev)
	s.events.Publish(realtime.UserRoom(order.FreelancerID.String()), ev)
	s.events.Publish(realtime.OrderRoom(order.ID.String()), ev)
}

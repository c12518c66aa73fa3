package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/orders"
	pkgdb "github.com/freelancehub/freelancehub-backend/pkg/db"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/google/uuid"
)

type eventPublisher interface {
	Publish(room string, ev realtime.Event) int
}

// Message is a relayed chat line. Messages are fan-out only and are
// never persisted; History exists so clients can render an empty
// backlog without special-casing.
type Message struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RelayInput carries one inbound chat message.
type RelayInput struct {
	OrderID  uuid.UUID
	SenderID uuid.UUID
	Username string
	Text     string
}

// Service relays order-scoped chat messages between participants.
type Service interface {
	RelayMessage(ctx context.Context, input RelayInput) error
	History(ctx context.Context, orderID, requesterID uuid.UUID) ([]Message, error)
}

type service struct {
	orders orders.Repository
	events eventPublisher
	now    func() time.Time
}

// ServiceParams configure the chat service.
type ServiceParams struct {
	Orders orders.Repository
	Events eventPublisher
}

// NewService builds a chat service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{
		orders: params.Orders,
		events: params.Events,
		now:    time.Now,
	}, nil
}

// RelayMessage drops bad input silently. Chat is best-effort and a
// rejected line must not surface an error mid-conversation.
func (s *service) RelayMessage(ctx context.Context, input RelayInput) error {
	text := strings.TrimSpace(input.Text)
	if text == "" || input.OrderID == uuid.Nil || input.SenderID == uuid.Nil {
		return nil
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ClientID != input.SenderID && order.FreelancerID != input.SenderID {
		return nil
	}

	s.events.Publish(realtime.OrderRoom(order.ID.String()), realtime.Event{
		Name: "chat:message",
		Data: map[string]any{
			"order_id":  order.ID.String(),
			"user_id":   input.SenderID.String(),
			"username":  input.Username,
			"message":   text,
			"timestamp": s.now().UTC().Format(time.RFC3339),
		},
	})
	return nil
}

func (s *service) History(ctx context.Context, orderID, requesterID uuid.UUID) ([]Message, error) {
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
	return []Message{}, nil
}

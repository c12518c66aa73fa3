package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/google/uuid"
)

const recentActivityWindow = 24 * time.Hour

// Entry is one synthesized notification. The feed is computed from
// order state on every read; nothing is stored.
type Entry struct {
	Type      enums.NotificationType `json:"type"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
}

// Service assembles the per-user notification feed.
type Service interface {
	Feed(ctx context.Context, userID uuid.UUID, isFreelancer bool) ([]Entry, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Feed(ctx context.Context, userID uuid.UUID, isFreelancer bool) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	now := s.now().UTC()
	entries := []Entry{}

	if isFreelancer {
		pending, err := s.repo.CountPendingReceived(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
		}
		if pending > 0 {
			entries = append(entries, Entry{
				Type:      enums.NotificationTypeOrder,
				Message:   fmt.Sprintf("You have %d pending order(s)", pending),
				Timestamp: now,
			})
		}
	}

	// Recent placements count regardless of role; freelancers can buy too.
	recent, err := s.repo.CountPlacedSince(ctx, userID, now.Add(-recentActivityWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent orders")
	}
	if recent > 0 {
		entries = append(entries, Entry{
			Type:      enums.NotificationTypeActivity,
			Message:   fmt.Sprintf("You placed %d order(s) recently", recent),
			Timestamp: now,
		})
	}

	return entries, nil
}

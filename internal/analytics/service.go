package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/users"
	pkgdb "github.com/freelancehub/freelancehub-backend/pkg/db"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/google/uuid"
)

// UserStats is the dashboard summary for one user. Exactly one of the
// role sections is populated, matching the user's registered role.
type UserStats struct {
	UserID       uuid.UUID        `json:"user_id"`
	Username     string           `json:"username"`
	IsFreelancer bool             `json:"is_freelancer"`
	Freelancer   *FreelancerStats `json:"freelancer,omitempty"`
	Client       *ClientStats     `json:"client,omitempty"`
}

// FreelancerStats summarizes supply-side activity.
type FreelancerStats struct {
	ActiveListings  int64  `json:"active_listings"`
	OrdersReceived  int64  `json:"orders_received"`
	OrdersCompleted int64  `json:"orders_completed"`
	TotalEarnings   string `json:"total_earnings"`
	// CompletionRate is the completed fraction of received orders in
	// [0, 1], zero when no orders were received.
	CompletionRate float64 `json:"completion_rate"`
}

// ClientStats summarizes demand-side activity.
type ClientStats struct {
	OrdersPlaced    int64  `json:"orders_placed"`
	OrdersCompleted int64  `json:"orders_completed"`
	TotalSpent      string `json:"total_spent"`
}

// TrendingEntry is one listing on the trending board.
type TrendingEntry struct {
	ListingID      uuid.UUID `json:"listing_id"`
	Title          string    `json:"title"`
	Price          string    `json:"price"`
	FreelancerName string    `json:"freelancer_name"`
	OrderCount     int64     `json:"order_count"`
}

// Service computes dashboard statistics and the trending board.
type Service interface {
	UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	Trending(ctx context.Context) ([]TrendingEntry, error)
}

type service struct {
	repo       Repository
	users      users.Repository
	windowDays int
	topN       int
	now        func() time.Time
}

// ServiceParams configure the analytics service.
type ServiceParams struct {
	Repo       Repository
	Users      users.Repository
	WindowDays int
	TopN       int
}

// NewService builds an analytics service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	windowDays := params.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	topN := params.TopN
	if topN <= 0 {
		topN = 6
	}
	return &service{
		repo:       params.Repo,
		users:      params.Users,
		windowDays: windowDays,
		topN:       topN,
		now:        time.Now,
	}, nil
}

func (s *service) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	stats := &UserStats{
		UserID:       user.ID,
		Username:     user.Username,
		IsFreelancer: user.IsFreelancer,
	}
	if user.IsFreelancer {
		stats.Freelancer, err = s.freelancerStats(ctx, user.ID)
	} else {
		stats.Client, err = s.clientStats(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *service) freelancerStats(ctx context.Context, userID uuid.UUID) (*FreelancerStats, error) {
	activeListings, err := s.repo.CountActiveListings(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active listings")
	}
	received, err := s.repo.CountOrdersReceived(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders received")
	}
	completed, err := s.repo.CountOrdersReceivedWithStatus(ctx, userID, "completed")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed orders")
	}
	earnings, err := s.repo.SumCompletedEarnings(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum earnings")
	}

	var rate float64
	if received > 0 {
		rate = float64(completed) / float64(received)
	}
	return &FreelancerStats{
		ActiveListings:  activeListings,
		OrdersReceived:  received,
		OrdersCompleted: completed,
		TotalEarnings:   earnings.StringFixed(2),
		CompletionRate:  rate,
	}, nil
}

func (s *service) clientStats(ctx context.Context, userID uuid.UUID) (*ClientStats, error) {
	placed, err := s.repo.CountOrdersPlaced(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders placed")
	}
	completed, err := s.repo.CountOrdersPlacedWithStatus(ctx, userID, "completed")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed orders")
	}
	spent, err := s.repo.SumCompletedSpend(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum spend")
	}
	return &ClientStats{
		OrdersPlaced:    placed,
		OrdersCompleted: completed,
		TotalSpent:      spent.StringFixed(2),
	}, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingEntry, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.windowDays)
	counts, err := s.repo.OrderCountsSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate order counts")
	}
	if len(counts) == 0 {
		return []TrendingEntry{}, nil
	}

	// Deterministic order regardless of what the GROUP BY returns:
	// highest count first, ties broken by ascending listing id.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].OrderCount != counts[j].OrderCount {
			return counts[i].OrderCount > counts[j].OrderCount
		}
		return counts[i].ListingID.String() < counts[j].ListingID.String()
	})
	if len(counts) > s.topN {
		counts = counts[:s.topN]
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for _, row := range counts {
		ids = append(ids, row.ListingID)
	}
	listings, err := s.repo.FindListingsWithOwner(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trending listings")
	}
	byID := make(map[uuid.UUID]ListingOwnerRow, len(listings))
	for _, row := range listings {
		byID[row.ListingID] = row
	}

	// Inactive listings drop out after the top slots are taken, so a
	// deactivated bestseller shortens the board instead of promoting
	// the next listing into it.
	entries := make([]TrendingEntry, 0, len(counts))
	for _, row := range counts {
		listing, ok := byID[row.ListingID]
		if !ok || !listing.IsActive {
			continue
		}
		entries = append(entries, TrendingEntry{
			ListingID:      listing.ListingID,
			Title:          listing.Title,
			Price:          listing.Price.StringFixed(2),
			FreelancerName: listing.FreelancerName,
			OrderCount:     row.OrderCount,
		})
	}
	return entries, nil
}

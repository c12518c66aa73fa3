package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/users"
	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeAnalyticsRepo struct {
	activeListings   int64
	ordersReceived   int64
	receivedComplete int64
	earnings         decimal.Decimal
	ordersPlaced     int64
	placedComplete   int64
	spend            decimal.Decimal
	counts           []ListingOrderCount
	listings         []ListingOwnerRow
}

func (f *fakeAnalyticsRepo) CountActiveListings(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	return f.activeListings, nil
}

func (f *fakeAnalyticsRepo) CountOrdersReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	return f.ordersReceived, nil
}

func (f *fakeAnalyticsRepo) CountOrdersReceivedWithStatus(ctx context.Context, freelancerID uuid.UUID, status string) (int64, error) {
	return f.receivedComplete, nil
}

func (f *fakeAnalyticsRepo) SumCompletedEarnings(ctx context.Context, freelancerID uuid.UUID) (decimal.Decimal, error) {
	return f.earnings, nil
}

func (f *fakeAnalyticsRepo) CountOrdersPlaced(ctx context.Context, clientID uuid.UUID) (int64, error) {
	return f.ordersPlaced, nil
}

func (f *fakeAnalyticsRepo) CountOrdersPlacedWithStatus(ctx context.Context, clientID uuid.UUID, status string) (int64, error) {
	return f.placedComplete, nil
}

func (f *fakeAnalyticsRepo) SumCompletedSpend(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	return f.spend, nil
}

func (f *fakeAnalyticsRepo) OrderCountsSince(ctx context.Context, cutoff time.Time) ([]ListingOrderCount, error) {
	return f.counts, nil
}

func (f *fakeAnalyticsRepo) FindListingsWithOwner(ctx context.Context, ids []uuid.UUID) ([]ListingOwnerRow, error) {
	return f.listings, nil
}

type fakeUsersRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (f *fakeUsersRepo) WithTx(tx *gorm.DB) users.Repository { return f }

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo Repository, usersRepo users.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:       repo,
		Users:      usersRepo,
		WindowDays: 7,
		TopN:       3,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestUserStatsFreelancer(t *testing.T) {
	userID := uuid.New()
	repo := &fakeAnalyticsRepo{
		activeListings:   4,
		ordersReceived:   10,
		receivedComplete: 7,
		earnings:         decimal.RequireFromString("845.50"),
	}
	usersRepo := &fakeUsersRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: userID, Username: "maya", IsFreelancer: true}, nil
		},
	}
	svc := newTestService(t, repo, usersRepo)

	stats, err := svc.UserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.Client != nil {
		t.Fatal("expected no client section for a freelancer")
	}
	fs := stats.Freelancer
	if fs == nil {
		t.Fatal("expected freelancer section")
	}
	if fs.ActiveListings != 4 || fs.OrdersReceived != 10 || fs.OrdersCompleted != 7 {
		t.Fatalf("unexpected counts: %+v", fs)
	}
	if fs.TotalEarnings != "845.50" {
		t.Fatalf("expected earnings 845.50, got %s", fs.TotalEarnings)
	}
	if fs.CompletionRate != 0.7 {
		t.Fatalf("expected completion rate 0.7, got %f", fs.CompletionRate)
	}
}

func TestUserStatsCompletionRateZeroWhenNoOrders(t *testing.T) {
	userID := uuid.New()
	repo := &fakeAnalyticsRepo{earnings: decimal.Zero}
	usersRepo := &fakeUsersRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: userID, Username: "new", IsFreelancer: true}, nil
		},
	}
	svc := newTestService(t, repo, usersRepo)

	stats, err := svc.UserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.Freelancer.CompletionRate != 0 {
		t.Fatalf("expected completion rate 0, got %f", stats.Freelancer.CompletionRate)
	}
}

func TestUserStatsClient(t *testing.T) {
	userID := uuid.New()
	repo := &fakeAnalyticsRepo{
		ordersPlaced:   5,
		placedComplete: 2,
		spend:          decimal.RequireFromString("300.00"),
	}
	usersRepo := &fakeUsersRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: userID, Username: "sam", IsFreelancer: false}, nil
		},
	}
	svc := newTestService(t, repo, usersRepo)

	stats, err := svc.UserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.Freelancer != nil {
		t.Fatal("expected no freelancer section for a client")
	}
	cs := stats.Client
	if cs == nil {
		t.Fatal("expected client section")
	}
	if cs.OrdersPlaced != 5 || cs.OrdersCompleted != 2 || cs.TotalSpent != "300.00" {
		t.Fatalf("unexpected client stats: %+v", cs)
	}
}

func TestUserStatsUnknownUser(t *testing.T) {
	usersRepo := &fakeUsersRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, &fakeAnalyticsRepo{}, usersRepo)

	_, err := svc.UserStats(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func trendingIDs(entries []TrendingEntry) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ListingID)
	}
	return out
}

func TestTrendingOrdersByCountThenID(t *testing.T) {
	idA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	idB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	idC := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	repo := &fakeAnalyticsRepo{
		counts: []ListingOrderCount{
			{ListingID: idC, OrderCount: 5},
			{ListingID: idB, OrderCount: 9},
			{ListingID: idA, OrderCount: 5},
		},
		listings: []ListingOwnerRow{
			{ListingID: idA, Title: "A", Price: decimal.RequireFromString("10.00"), IsActive: true, FreelancerName: "ann"},
			{ListingID: idB, Title: "B", Price: decimal.RequireFromString("20.00"), IsActive: true, FreelancerName: "ben"},
			{ListingID: idC, Title: "C", Price: decimal.RequireFromString("30.00"), IsActive: true, FreelancerName: "cal"},
		},
	}
	svc := newTestService(t, repo, &fakeUsersRepo{})

	entries, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	got := trendingIDs(entries)
	want := []uuid.UUID{idB, idA, idC}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if entries[0].OrderCount != 9 || entries[0].FreelancerName != "ben" {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
}

func TestTrendingInactiveDroppedAfterTopN(t *testing.T) {
	idA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	idB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	idC := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	idD := uuid.MustParse("44444444-4444-4444-4444-444444444444")

	// TopN is 3. B is inactive but still occupies a top slot, so D
	// never makes the board and the result shrinks to two entries.
	repo := &fakeAnalyticsRepo{
		counts: []ListingOrderCount{
			{ListingID: idA, OrderCount: 8},
			{ListingID: idB, OrderCount: 7},
			{ListingID: idC, OrderCount: 6},
			{ListingID: idD, OrderCount: 5},
		},
		listings: []ListingOwnerRow{
			{ListingID: idA, Title: "A", Price: decimal.RequireFromString("10.00"), IsActive: true, FreelancerName: "ann"},
			{ListingID: idB, Title: "B", Price: decimal.RequireFromString("20.00"), IsActive: false, FreelancerName: "ben"},
			{ListingID: idC, Title: "C", Price: decimal.RequireFromString("30.00"), IsActive: true, FreelancerName: "cal"},
		},
	}
	svc := newTestService(t, repo, &fakeUsersRepo{})

	entries, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	got := trendingIDs(entries)
	want := []uuid.UUID{idA, idC}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTrendingEmptyWindow(t *testing.T) {
	svc := newTestService(t, &fakeAnalyticsRepo{}, &fakeUsersRepo{})

	entries, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty board, got %d entries", len(entries))
	}
}

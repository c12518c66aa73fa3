package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	"github.com/google/uuid"
)

type fakeRepo struct {
	pendingReceived int64
	placedRecently  int64
	sinceSeen       time.Time
}

func (f *fakeRepo) CountPendingReceived(ctx context.Context, freelancerID uuid.UUID) (int64, error) {
	return f.pendingReceived, nil
}

func (f *fakeRepo) CountPlacedSince(ctx context.Context, clientID uuid.UUID, since time.Time) (int64, error) {
	f.sinceSeen = since
	return f.placedRecently, nil
}

func TestFeedFreelancerPendingOrders(t *testing.T) {
	repo := &fakeRepo{pendingReceived: 3}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	entries, err := svc.Feed(context.Background(), uuid.New(), true)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Type != enums.NotificationTypeOrder {
		t.Fatalf("expected order entry, got %s", entries[0].Type)
	}
	if entries[0].Message != "You have 3 pending order(s)" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatal("expected entry timestamp to be set")
	}
}

func TestFeedFreelancerAlsoGetsActivityEntry(t *testing.T) {
	repo := &fakeRepo{pendingReceived: 1, placedRecently: 2}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	entries, err := svc.Feed(context.Background(), uuid.New(), true)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != enums.NotificationTypeOrder {
		t.Fatalf("expected order entry first, got %s", entries[0].Type)
	}
	if entries[1].Type != enums.NotificationTypeActivity {
		t.Fatalf("expected activity entry second, got %s", entries[1].Type)
	}
	if !strings.Contains(entries[1].Message, "2 order(s)") {
		t.Fatalf("unexpected activity message %q", entries[1].Message)
	}
}

func TestFeedClientActivityOnly(t *testing.T) {
	repo := &fakeRepo{placedRecently: 2}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	entries, err := svc.Feed(context.Background(), uuid.New(), false)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Type != enums.NotificationTypeActivity {
		t.Fatalf("expected activity entry, got %s", entries[0].Type)
	}
	if entries[0].Message != "You placed 2 order(s) recently" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatal("expected entry timestamp to be set")
	}

	window := time.Since(repo.sinceSeen)
	if window < 23*time.Hour || window > 25*time.Hour {
		t.Fatalf("expected roughly 24h activity window, got %s", window)
	}
}

func TestFeedEmptyWhenNothingPending(t *testing.T) {
	svc, err := NewService(&fakeRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	entries, err := svc.Feed(context.Background(), uuid.New(), false)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty feed, got %d entries", len(entries))
	}
}

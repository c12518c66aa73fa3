package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freelancehub/freelancehub-backend/internal/analytics"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeAnalyticsService struct {
	known uuid.UUID
	stats *analytics.UserStats
}

func (f *fakeAnalyticsService) UserStats(ctx context.Context, userID uuid.UUID) (*analytics.UserStats, error) {
	if userID != f.known {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return f.stats, nil
}

func (f *fakeAnalyticsService) Trending(ctx context.Context) ([]analytics.TrendingEntry, error) {
	return nil, nil
}

func TestUserStatsByIDLooksUpArbitraryUser(t *testing.T) {
	target := uuid.New()
	svc := &fakeAnalyticsService{
		known: target,
		stats: &analytics.UserStats{UserID: target, Username: "bob", IsFreelancer: true},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	r := chi.NewRouter()
	r.Get("/users/{userId}/stats", AnalyticsUserStatsByID(svc, logg))

	req := httptest.NewRequest(http.MethodGet, "/users/"+target.String()+"/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Stats analytics.UserStats `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Data.Stats.Username != "bob" {
		t.Fatalf("expected stats for bob, got %q", body.Data.Stats.Username)
	}
}

func TestUserStatsByIDUnknownUser(t *testing.T) {
	svc := &fakeAnalyticsService{known: uuid.New()}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	r := chi.NewRouter()
	r.Get("/users/{userId}/stats", AnalyticsUserStatsByID(svc, logg))

	req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserStatsByIDRejectsMalformedID(t *testing.T) {
	svc := &fakeAnalyticsService{known: uuid.New()}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	r := chi.NewRouter()
	r.Get("/users/{userId}/stats", AnalyticsUserStatsByID(svc, logg))

	req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

package controllers

import (
	"net/http"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/internal/analytics"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AnalyticsUserStats returns the authenticated user's dashboard summary.
func AnalyticsUserStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		stats, err := svc.UserStats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stats": stats})
	}
}

// AnalyticsUserStatsByID returns the dashboard summary for any user.
// Stats are public marketplace data, so no ownership check beyond auth.
func AnalyticsUserStatsByID(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "user id must be a uuid"))
			return
		}

		stats, err := svc.UserStats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stats": stats})
	}
}

// AnalyticsTrending returns the trending listings board.
func AnalyticsTrending(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Trending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"trending": entries})
	}
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/api/validators"
	"github.com/freelancehub/freelancehub-backend/internal/listings"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createListingRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	Category     string `json:"category" validate:"required,max=100"`
	Price        string `json:"price" validate:"required"`
	DeliveryDays int    `json:"delivery_days" validate:"required,min=1"`
}

// ListingCreate publishes a new listing for the authenticated freelancer.
func ListingCreate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number"))
			return
		}

		freelancerID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		listing, err := svc.Create(r.Context(), listings.CreateInput{
			FreelancerID: freelancerID,
			IsFreelancer: middleware.IsFreelancerFromContext(r.Context()),
			Title:        body.Title,
			Description:  body.Description,
			Category:     body.Category,
			Price:        price,
			DeliveryDays: body.DeliveryDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*ListingDTO{"listing": toListingDTO(listing)})
	}
}

// ListingBrowse returns active listings, optionally filtered.
func ListingBrowse(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := listings.ListFilter{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			filter.Limit = limit
		}

		rows, err := svc.Browse(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"listings": toListingDTOs(rows)})
	}
}

// ListingDetail returns one listing by id.
func ListingDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "listingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "listing id must be a uuid"))
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*ListingDTO{"listing": toListingDTO(listing)})
	}
}

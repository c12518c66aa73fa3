package controllers

import (
	"net/http"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/api/validators"
	"github.com/freelancehub/freelancehub-backend/internal/orders"
	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createOrderRequest struct {
	ListingID    string `json:"listing_id" validate:"required,uuid"`
	Requirements string `json:"requirements" validate:"required"`
}

type transitionOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCreate places a new order against a listing.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := uuid.Parse(body.ListingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "listing id must be a uuid"))
			return
		}
		clientID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		order, err := svc.CreateOrder(r.Context(), orders.CreateOrderInput{
			ClientID:     clientID,
			ListingID:    listingID,
			Requirements: body.Requirements,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*OrderDTO{"order": toOrderDTO(order)})
	}
}

// OrderDetail returns one order to its participants.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}
		requesterID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		order, err := svc.GetForParticipant(r.Context(), orderID, requesterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*OrderDTO{"order": toOrderDTO(order)})
	}
}

// OrderTransition moves an order through the fulfillment state machine.
func OrderTransition(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}

		var body transitionOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}
		actorID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		order, err := svc.Transition(r.Context(), orders.TransitionInput{
			OrderID: orderID,
			ActorID: actorID,
			Target:  target,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*OrderDTO{"order": toOrderDTO(order)})
	}
}

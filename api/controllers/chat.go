package controllers

import (
	"net/http"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/api/validators"
	"github.com/freelancehub/freelancehub-backend/internal/chat"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type chatMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatSend relays a message into the order's room. The relay itself is
// best-effort; the HTTP layer only rejects malformed requests.
func ChatSend(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}

		var body chatMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		senderID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		err = svc.RelayMessage(r.Context(), chat.RelayInput{
			OrderID:  orderID,
			SenderID: senderID,
			Username: middleware.UsernameFromContext(r.Context()),
			Text:     body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}

// ChatHistory returns the (always empty) backlog after checking access.
func ChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}
		requesterID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		messages, err := svc.History(r.Context(), orderID, requesterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"messages": messages})
	}
}

package controllers

import (
	"net/http"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/api/validators"
	"github.com/freelancehub/freelancehub-backend/internal/payments"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type submitPaymentRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	CardExpiry string `json:"card_expiry" validate:"required"`
	CardCVV    string `json:"card_cvv" validate:"required"`
	CardHolder string `json:"card_holder" validate:"required"`
}

// PaymentSubmit charges a pending order.
func PaymentSubmit(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}

		var body submitPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payerID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		receipt, err := svc.SubmitPayment(r.Context(), payments.SubmitPaymentInput{
			OrderID:    orderID,
			PayerID:    payerID,
			CardNumber: body.CardNumber,
			CardExpiry: body.CardExpiry,
			CardCVV:    body.CardCVV,
			CardHolder: body.CardHolder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"payment_id":     receipt.PaymentID.String(),
			"transaction_id": receipt.TransactionID,
			"amount":         receipt.Amount,
			"order_status":   receipt.OrderStatus.String(),
		})
	}
}

// PaymentList returns the payment records for an order.
func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}
		requesterID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		rows, err := svc.ListForOrder(r.Context(), orderID, requesterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"payments": toPaymentDTOs(rows)})
	}
}

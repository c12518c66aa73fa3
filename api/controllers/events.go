package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-backend/api/middleware"
	"github.com/freelancehub/freelancehub-backend/api/responses"
	"github.com/freelancehub/freelancehub-backend/internal/orders"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/google/uuid"
)

const heartbeatInterval = 25 * time.Second

// EventStream attaches the authenticated user to the hub over
// server-sent events. The personal room is joined automatically; order
// rooms requested via ?rooms= are joined only after a participant check.
func EventStream(hub *realtime.Hub, ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		sub := hub.Connect(userID.String())
		defer hub.Disconnect(sub)

		if err := joinRequestedRooms(r, hub, sub, ordersSvc, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case ev, open := <-sub.Events():
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
				flusher.Flush()
			}
		}
	}
}

func joinRequestedRooms(r *http.Request, hub *realtime.Hub, sub *realtime.Subscriber, ordersSvc orders.Service, userID uuid.UUID) error {
	raw := strings.TrimSpace(r.URL.Query().Get("rooms"))
	if raw == "" {
		return nil
	}

	for _, room := range strings.Split(raw, ",") {
		room = strings.TrimSpace(room)
		if room == "" {
			continue
		}
		orderIDRaw, ok := strings.CutPrefix(room, "order:")
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "only order rooms can be requested")
		}
		orderID, err := uuid.Parse(orderIDRaw)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "order room id must be a uuid")
		}
		if _, err := ordersSvc.GetForParticipant(r.Context(), orderID, userID); err != nil {
			return err
		}
		hub.Join(sub, realtime.OrderRoom(orderID.String()))
	}
	return nil
}

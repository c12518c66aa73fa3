package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/orders"
	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const defaultPendingOrderTTL = 240 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(room string, ev realtime.Event) int
}

// OrderTTLJobParams configure the stale pending order sweeper.
type OrderTTLJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Orders orders.Repository
	Events eventPublisher
	TTL    time.Duration
}

// NewOrderTTLJob builds the cron job that cancels pending orders that
// were never paid within the TTL.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultPendingOrderTTL
	}
	return &orderTTLJob{
		logg:   params.Logger,
		db:     params.DB,
		orders: params.Orders,
		events: params.Events,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type orderTTLJob struct {
	logg   *logger.Logger
	db     txRunner
	orders orders.Repository
	events eventPublisher
	ttl    time.Duration
	now    func() time.Time
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.orders.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	cancelled := 0
	for _, order := range stale {
		expired, err := j.expireOrder(ctx, order)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		if expired {
			cancelled++
		}
	}

	logCtx := j.logg.WithField(ctx, "count", cancelled)
	j.logg.Info(logCtx, "stale pending order sweep complete")
	return multierr.Combine(errs...)
}

// expireOrder re-reads the order under a row lock; a payment landing
// between the sweep query and this transaction wins.
func (j *orderTTLJob) expireOrder(ctx context.Context, order models.Order) (bool, error) {
	expired := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.orders.WithTx(tx)
		current, err := repo.FindByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if current.Status != enums.OrderStatusPending {
			return nil
		}
		if err := repo.Update(ctx, current.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil || !expired {
		return false, err
	}

	data := map[string]any{
		"order_id": order.ID.String(),
		"status":   enums.OrderStatusCancelled.String(),
		"reason":   "payment window expired",
	}
	ev := realtime.Event{Name: "order:status", Data: data}
	j.events.Publish(realtime.UserRoom(order.ClientID.String()), ev)
	j.events.Publish(realtime.UserRoom(order.FreelancerID.String()), ev)
	j.events.Publish(realtime.OrderRoom(order.ID.String()), ev)
	return true, nil
}

package payments

import (
	"context"
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-backend/internal/orders"
	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	"github.com/freelancehub/freelancehub-backend/pkg/enums"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakePaymentsRepo struct {
	createFn               func(ctx context.Context, payment *models.Payment) error
	findCompletedByOrderFn func(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	findByOrderFn          func(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
}

func (f *fakePaymentsRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePaymentsRepo) Create(ctx context.Context, payment *models.Payment) error {
	return f.createFn(ctx, payment)
}

func (f *fakePaymentsRepo) FindCompletedByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if f.findCompletedByOrderFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.findCompletedByOrderFn(ctx, orderID)
}

func (f *fakePaymentsRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	return f.findByOrderFn(ctx, orderID)
}

type fakeOrdersRepo struct {
	findByIDFn          func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	findByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	updateFn            func(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeOrdersRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.findByIDForUpdateFn(ctx, id)
}

func (f *fakeOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, id, updates)
}

func (f *fakeOrdersRepo) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	return nil, nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type publishCall struct {
	room  string
	event realtime.Event
}

type fakePublisher struct {
	calls []publishCall
}

func (f *fakePublisher) Publish(room string, ev realtime.Event) int {
	f.calls = append(f.calls, publishCall{room: room, event: ev})
	return 1
}

func pendingOrder(clientID uuid.UUID) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: uuid.New(),
		ListingID:    uuid.New(),
		Status:       enums.OrderStatusPending,
		TotalAmount:  decimal.RequireFromString("120.00"),
	}
}

func validInput(orderID, payerID uuid.UUID) SubmitPaymentInput {
	return SubmitPaymentInput{
		OrderID:    orderID,
		PayerID:    payerID,
		CardNumber: "4242 4242 4242 4242",
		CardExpiry: "12/30",
		CardCVV:    "123",
		CardHolder: "Ada Lovelace",
	}
}

func newTestService(t *testing.T, repo Repository, ordersRepo orders.Repository, pub eventPublisher) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Orders: ordersRepo,
		Tx:     fakeTx{},
		Events: pub,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.(*service)
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestSubmitPaymentSuccess(t *testing.T) {
	clientID := uuid.New()
	order := pendingOrder(clientID)

	var created *models.Payment
	repo := &fakePaymentsRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			created = payment
			return nil
		},
	}
	var updated map[string]any
	ordersRepo := &fakeOrdersRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
			updated = updates
			return nil
		},
	}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, ordersRepo, pub)

	receipt, err := svc.SubmitPayment(context.Background(), validInput(order.ID, clientID))
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if receipt.PaymentID == uuid.Nil || receipt.TransactionID == "" {
		t.Fatalf("receipt missing identifiers: %+v", receipt)
	}
	if receipt.OrderStatus != enums.OrderStatusPaid {
		t.Fatalf("expected order status paid, got %s", receipt.OrderStatus)
	}
	if receipt.Amount != "120.00" {
		t.Fatalf("expected amount 120.00, got %s", receipt.Amount)
	}
	if created == nil || created.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment record, got %+v", created)
	}
	if created.CardLast4 != "4242" {
		t.Fatalf("expected card last4 4242, got %s", created.CardLast4)
	}
	if created.CompletedAt == nil {
		t.Fatal("expected completed_at on payment record")
	}
	if got := updated["status"]; got != enums.OrderStatusPaid {
		t.Fatalf("expected order marked paid, got %v", got)
	}
	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.calls))
	}
	if pub.calls[0].room != realtime.UserRoom(order.FreelancerID.String()) {
		t.Fatalf("expected publish to freelancer room, got %s", pub.calls[0].room)
	}
	if pub.calls[0].event.Name != "payment:received" {
		t.Fatalf("expected payment:received event, got %s", pub.calls[0].event.Name)
	}
}

func TestSubmitPaymentOrderNotFound(t *testing.T) {
	ordersRepo := &fakeOrdersRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, &fakePaymentsRepo{}, ordersRepo, &fakePublisher{})

	_, err := svc.SubmitPayment(context.Background(), validInput(uuid.New(), uuid.New()))
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitPaymentOnlyClientCanPay(t *testing.T) {
	order := pendingOrder(uuid.New())
	ordersRepo := &fakeOrdersRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	}
	svc := newTestService(t, &fakePaymentsRepo{}, ordersRepo, &fakePublisher{})

	_, err := svc.SubmitPayment(context.Background(), validInput(order.ID, order.FreelancerID))
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestSubmitPaymentDuplicateRejected(t *testing.T) {
	clientID := uuid.New()
	order := pendingOrder(clientID)
	repo := &fakePaymentsRepo{
		findCompletedByOrderFn: func(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
			return &models.Payment{ID: uuid.New(), OrderID: orderID, Status: enums.PaymentStatusCompleted}, nil
		},
	}
	ordersRepo := &fakeOrdersRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	}
	svc := newTestService(t, repo, ordersRepo, &fakePublisher{})

	_, err := svc.SubmitPayment(context.Background(), validInput(order.ID, clientID))
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestSubmitPaymentNonPendingOrderRejected(t *testing.T) {
	clientID := uuid.New()
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusPaid,
		enums.OrderStatusInProgress,
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	} {
		order := pendingOrder(clientID)
		order.Status = status
		ordersRepo := &fakeOrdersRepo{
			findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			},
		}
		svc := newTestService(t, &fakePaymentsRepo{}, ordersRepo, &fakePublisher{})

		_, err := svc.SubmitPayment(context.Background(), validInput(order.ID, clientID))
		assertCode(t, err, pkgerrors.CodeConflict)
	}
}

func TestSubmitPaymentCardValidation(t *testing.T) {
	clientID := uuid.New()

	cases := []struct {
		name    string
		mutate  func(in *SubmitPaymentInput)
		wantErr bool
	}{
		{name: "valid 16 digit card", mutate: func(in *SubmitPaymentInput) {}, wantErr: false},
		{name: "13 digit card accepted", mutate: func(in *SubmitPaymentInput) {
			in.CardNumber = "4242424242424"
		}, wantErr: false},
		{name: "19 digit card accepted", mutate: func(in *SubmitPaymentInput) {
			in.CardNumber = "4242424242424242424"
		}, wantErr: false},
		{name: "12 digit card rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardNumber = "424242424242"
		}, wantErr: true},
		{name: "20 digit card rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardNumber = "42424242424242424242"
		}, wantErr: true},
		{name: "non digit card rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardNumber = "4242abcd42424242"
		}, wantErr: true},
		{name: "4 digit cvv accepted", mutate: func(in *SubmitPaymentInput) {
			in.CardCVV = "1234"
		}, wantErr: false},
		{name: "2 digit cvv rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardCVV = "12"
		}, wantErr: true},
		{name: "5 digit cvv rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardCVV = "12345"
		}, wantErr: true},
		{name: "missing holder rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardHolder = "   "
		}, wantErr: true},
		{name: "missing expiry rejected", mutate: func(in *SubmitPaymentInput) {
			in.CardExpiry = ""
		}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := pendingOrder(clientID)
			repo := &fakePaymentsRepo{
				createFn: func(ctx context.Context, payment *models.Payment) error { return nil },
			}
			ordersRepo := &fakeOrdersRepo{
				findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
					return order, nil
				},
			}
			svc := newTestService(t, repo, ordersRepo, &fakePublisher{})

			input := validInput(order.ID, clientID)
			tc.mutate(&input)

			_, err := svc.SubmitPayment(context.Background(), input)
			if tc.wantErr {
				assertCode(t, err, pkgerrors.CodeValidation)
				return
			}
			if err != nil {
				t.Fatalf("SubmitPayment: %v", err)
			}
		})
	}
}

func TestSubmitPaymentUniqueViolationMapsToConflict(t *testing.T) {
	clientID := uuid.New()
	order := pendingOrder(clientID)
	repo := &fakePaymentsRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			return gorm.ErrDuplicatedKey
		},
	}
	ordersRepo := &fakeOrdersRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, ordersRepo, pub)

	_, err := svc.SubmitPayment(context.Background(), validInput(order.ID, clientID))
	assertCode(t, err, pkgerrors.CodeConflict)
	if len(pub.calls) != 0 {
		t.Fatalf("expected no events on failure, got %d", len(pub.calls))
	}
}

func TestListForOrderRequiresParticipant(t *testing.T) {
	order := pendingOrder(uuid.New())
	ordersRepo := &fakeOrdersRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	}
	svc := newTestService(t, &fakePaymentsRepo{}, ordersRepo, &fakePublisher{})

	_, err := svc.ListForOrder(context.Background(), order.ID, uuid.New())
	assertCode(t, err, pkgerrors.CodeForbidden)
}

package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petbazaar/petbazaar-backend/internal/cart"
	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/pagination"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

type stubRepo struct {
	createFn          func(ctx context.Context, order *models.Order) error
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	findByIDForUserFn func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	listByUserFn      func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	setPaymentFn      func(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) error
	setAddressesFn    func(ctx context.Context, orderID uuid.UUID, shipping, billing types.Address) error
	setStatusFn       func(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	replaceFn         func(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem) error
	setTotalsFn       func(ctx context.Context, orderID uuid.UUID, subtotal, tax, shipping, total decimal.Decimal) error
	expireFn          func(ctx context.Context, cutoff, now time.Time) (int64, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) error {
	return s.createFn(ctx, order)
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	return s.findByIDForUserFn(ctx, id, userID)
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return s.listByUserFn(ctx, userID, limit, cursor)
}

func (s *stubRepo) SetPayment(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) error {
	return s.setPaymentFn(ctx, orderID, method, transactionID)
}

func (s *stubRepo) SetAddresses(ctx context.Context, orderID uuid.UUID, shipping, billing types.Address) error {
	return s.setAddressesFn(ctx, orderID, shipping, billing)
}

func (s *stubRepo) SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return s.setStatusFn(ctx, orderID, status)
}

func (s *stubRepo) ReplaceLineItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem) error {
	return s.replaceFn(ctx, orderID, items)
}

func (s *stubRepo) SetTotals(ctx context.Context, orderID uuid.UUID, subtotal, tax, shipping, total decimal.Decimal) error {
	return s.setTotalsFn(ctx, orderID, subtotal, tax, shipping, total)
}

func (s *stubRepo) ExpirePendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	return s.expireFn(ctx, cutoff, now)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pendingOrder(userID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		SubtotalPKR:   decimal.NewFromInt(7000),
		TaxPKR:        decimal.NewFromInt(1050),
		ShippingPKR:   decimal.Zero,
		TotalPKR:      decimal.NewFromInt(8050),
	}
}

func TestCreateFreezesCartLines(t *testing.T) {
	var created *models.Order
	svc := newTestService(t, &stubRepo{
		createFn: func(_ context.Context, order *models.Order) error {
			order.ID = uuid.New()
			created = order
			return nil
		},
	})

	productID := uuid.New()
	dto, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		Lines: []cart.LineItem{
			{ID: productID, Kind: enums.ItemKindProduct, DisplayName: "Premium Dog Food 5kg", UnitPrice: decimal.NewFromInt(1000), Quantity: 2},
		},
		ShippingAddress: types.Address{FirstName: "Ayesha", LastName: "Khan", Email: "a@example.com", Phone: "1", Line1: "x", City: "Lahore"},
		SubtotalPKR:     decimal.NewFromInt(2000),
		TaxPKR:          decimal.NewFromInt(300),
		ShippingPKR:     decimal.Zero,
		TotalPKR:        decimal.NewFromInt(2300),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created == nil || len(created.LineItems) != 1 {
		t.Fatalf("expected one persisted line item")
	}
	if created.LineItems[0].EntityID != productID || created.LineItems[0].Quantity != 2 {
		t.Fatalf("line item not frozen from cart: %+v", created.LineItems[0])
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("new orders must be pending, got %s", dto.Status)
	}
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttachTransactionRecordsReference(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	var recordedMethod enums.PaymentMethod
	var recordedTxn string

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, id, uid uuid.UUID) (*models.Order, error) {
			if id != order.ID || uid != userID {
				t.Fatalf("wrong lookup %s %s", id, uid)
			}
			return order, nil
		},
		setPaymentFn: func(_ context.Context, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) error {
			recordedMethod = method
			recordedTxn = transactionID
			return nil
		},
	})

	dto, err := svc.AttachTransaction(context.Background(), userID, order.ID, enums.PaymentMethodBankTransferHBL, " TXN-42 ")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if recordedMethod != enums.PaymentMethodBankTransferHBL || recordedTxn != "TXN-42" {
		t.Fatalf("payment not recorded: %s %s", recordedMethod, recordedTxn)
	}
	if dto.TransactionID == nil || *dto.TransactionID != "TXN-42" {
		t.Fatalf("dto missing transaction id")
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("bank transfers stay pending until verified, got %s", dto.Status)
	}
}

func TestAttachTransactionIsIdempotent(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	existing := "TXN-42"
	order.PaymentMethod = enums.PaymentMethodBankTransferHBL
	order.TransactionID = &existing

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		setPaymentFn: func(_ context.Context, _ uuid.UUID, _ enums.PaymentMethod, _ string) error {
			t.Fatal("re-submitting the same reference must not write")
			return nil
		},
	})

	dto, err := svc.AttachTransaction(context.Background(), userID, order.ID, enums.PaymentMethodBankTransferHBL, "TXN-42")
	if err != nil {
		t.Fatalf("idempotent attach: %v", err)
	}
	if dto.TransactionID == nil || *dto.TransactionID != "TXN-42" {
		t.Fatalf("unexpected dto %+v", dto)
	}

	_, err = svc.AttachTransaction(context.Background(), userID, order.ID, enums.PaymentMethodBankTransferHBL, "TXN-OTHER")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for a different reference, got %v", err)
	}
}

func TestAttachTransactionRejectsNonBankMethod(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.AttachTransaction(context.Background(), uuid.New(), uuid.New(), enums.PaymentMethodCashOnDelivery, "TXN-1")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttachTransactionRejectsNonPendingOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusCancelled

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	})

	_, err := svc.AttachTransaction(context.Background(), userID, order.ID, enums.PaymentMethodBankTransferMeezan, "TXN-9")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid-operation error, got %v", err)
	}
}

func TestAttachTransactionUnknownOrder(t *testing.T) {
	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})

	_, err := svc.AttachTransaction(context.Background(), uuid.New(), uuid.New(), enums.PaymentMethodBankTransferHBL, "TXN-1")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestConfirmMarksPendingOrderConfirmed(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	var written enums.OrderStatus

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		setStatusFn: func(_ context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
			if orderID != order.ID {
				t.Fatalf("wrong order %s", orderID)
			}
			written = status
			return nil
		},
	})

	dto, err := svc.Confirm(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if written != enums.OrderStatusConfirmed || dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("order not confirmed: wrote %s, dto %s", written, dto.Status)
	}
}

func TestConfirmAlreadyConfirmedIsNoOp(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusConfirmed

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		setStatusFn: func(_ context.Context, _ uuid.UUID, _ enums.OrderStatus) error {
			t.Fatal("re-confirming must not write")
			return nil
		},
	})

	dto, err := svc.Confirm(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	if dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status %s", dto.Status)
	}
}

func TestConfirmRejectsBankOrderWithoutTransaction(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.PaymentMethod = enums.PaymentMethodBankTransferHBL

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	})

	_, err := svc.Confirm(context.Background(), userID, order.ID)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid-operation error, got %v", err)
	}
}

func TestConfirmRejectsExpiredOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusExpired

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	})

	_, err := svc.Confirm(context.Background(), userID, order.ID)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid-operation error, got %v", err)
	}
}

func TestReplaceLinesRewritesPendingOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	productID := uuid.New()

	var gotItems []models.OrderLineItem
	var gotTotal decimal.Decimal
	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		replaceFn: func(_ context.Context, orderID uuid.UUID, items []models.OrderLineItem) error {
			if orderID != order.ID {
				t.Fatalf("wrong order %s", orderID)
			}
			gotItems = items
			return nil
		},
		setTotalsFn: func(_ context.Context, _ uuid.UUID, _, _, _, total decimal.Decimal) error {
			gotTotal = total
			return nil
		},
	})

	err := svc.ReplaceLines(context.Background(), userID, order.ID, ReplaceLinesInput{
		Lines: []cart.LineItem{
			{ID: productID, Kind: enums.ItemKindProduct, DisplayName: "Premium Dog Food 5kg", UnitPrice: decimal.NewFromInt(1000), Quantity: 1},
		},
		SubtotalPKR: decimal.NewFromInt(1000),
		TaxPKR:      decimal.NewFromInt(150),
		ShippingPKR: decimal.Zero,
		TotalPKR:    decimal.NewFromInt(1150),
	})
	if err != nil {
		t.Fatalf("replace lines: %v", err)
	}
	if len(gotItems) != 1 || gotItems[0].EntityID != productID {
		t.Fatalf("lines not rewritten: %+v", gotItems)
	}
	if !gotTotal.Equal(decimal.NewFromInt(1150)) {
		t.Fatalf("total = %s, want 1150", gotTotal)
	}
}

func TestReplaceLinesRequiresPendingOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusConfirmed

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	})

	err := svc.ReplaceLines(context.Background(), userID, order.ID, ReplaceLinesInput{
		Lines: []cart.LineItem{
			{ID: uuid.New(), Kind: enums.ItemKindProduct, DisplayName: "x", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid-operation error, got %v", err)
	}
}

func TestUpdateAddressesRequiresPendingOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusConfirmed

	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	})

	err := svc.UpdateAddresses(context.Background(), userID, order.ID, types.Address{}, types.Address{})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid-operation error, got %v", err)
	}
}

func TestUpdateAddressesWritesBoth(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	shipping := types.Address{FirstName: "Ayesha", LastName: "Khan", Email: "a@example.com", Phone: "1", Line1: "House 12", City: "Lahore"}

	var wrote bool
	svc := newTestService(t, &stubRepo{
		findByIDForUserFn: func(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		setAddressesFn: func(_ context.Context, orderID uuid.UUID, s, b types.Address) error {
			if orderID != order.ID || s.City != "Lahore" || b.City != "Lahore" {
				t.Fatalf("unexpected write: %s %+v %+v", orderID, s, b)
			}
			wrote = true
			return nil
		},
	})

	if err := svc.UpdateAddresses(context.Background(), userID, order.ID, shipping, shipping); err != nil {
		t.Fatalf("update addresses: %v", err)
	}
	if !wrote {
		t.Fatal("expected address write")
	}
}

func TestListPaginates(t *testing.T) {
	userID := uuid.New()
	rows := []models.Order{*pendingOrder(userID), *pendingOrder(userID), *pendingOrder(userID)}
	now := time.Now()
	for i := range rows {
		rows[i].CreatedAt = now.Add(-time.Duration(i) * time.Hour)
	}

	svc := newTestService(t, &stubRepo{
		listByUserFn: func(_ context.Context, _ uuid.UUID, limit int, _ *pagination.Cursor) ([]models.Order, error) {
			if limit != 2 {
				t.Fatalf("expected normalized limit 2, got %d", limit)
			}
			return rows, nil
		},
	})

	page, err := svc.List(context.Background(), userID, ListOrdersInput{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 items and a cursor, got %d items", len(page.Items))
	}
}

func TestExpireAbandonedComputesCutoff(t *testing.T) {
	var gotCutoff time.Time
	repo := &stubRepo{
		expireFn: func(_ context.Context, cutoff, _ time.Time) (int64, error) {
			gotCutoff = cutoff
			return 3, nil
		},
	}
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return fixed }

	expired, err := svc.ExpireAbandoned(context.Background(), 240*time.Hour)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 3 {
		t.Fatalf("expected 3 expired, got %d", expired)
	}
	if want := fixed.Add(-240 * time.Hour); !gotCutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", gotCutoff, want)
	}
}

func TestExpireAbandonedRejectsNonPositiveWindow(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.ExpireAbandoned(context.Background(), 0)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

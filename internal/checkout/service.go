package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/petbazaar/petbazaar-backend/internal/cart"
	"github.com/petbazaar/petbazaar-backend/internal/orders"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

// Service drives the checkout flow: shipping info, payment selection,
// review, confirmation. The pending order is created exactly once, when the
// shipping step first succeeds; everything after that mutates the same
// order, and Confirm is the only step that finalizes it.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	Current(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	SubmitShipping(ctx context.Context, userID uuid.UUID, input ShippingInput) (*SessionDTO, error)
	SelectPayment(ctx context.Context, userID uuid.UUID, input PaymentInput) (*SessionDTO, error)
	Back(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*SessionDTO, error)
}

// ShippingInput is the shipping step payload.
type ShippingInput struct {
	Shipping              types.Address
	Billing               types.Address
	BillingSameAsShipping bool
}

// PaymentInput is the payment step payload: just the chosen method. The
// bank-transfer reference is collected at confirmation.
type PaymentInput struct {
	Method enums.PaymentMethod
}

// ConfirmInput is the confirmation payload. Bank transfers carry the
// buyer's transaction reference; cash on delivery carries nothing.
type ConfirmInput struct {
	TransactionID string
}

type cartOpener interface {
	Open(ctx context.Context, ownerID uuid.UUID) (*cart.Store, error)
}

type availabilitySource interface {
	AvailabilityFor(ctx context.Context, snap cart.Snapshot) (cart.Availability, error)
}

type orderWriter interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
	AttachTransaction(ctx context.Context, userID, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) (*orders.OrderDTO, error)
	UpdateAddresses(ctx context.Context, userID, orderID uuid.UUID, shipping, billing types.Address) error
	ReplaceLines(ctx context.Context, userID, orderID uuid.UUID, input orders.ReplaceLinesInput) error
	Confirm(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error)
}

type service struct {
	carts        cartOpener
	availability availabilitySource
	orders       orderWriter

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewService constructs a checkout service instance.
func NewService(carts cartOpener, availability availabilitySource, orderSvc orderWriter) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart opener required")
	}
	if availability == nil {
		return nil, fmt.Errorf("availability source required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &service{
		carts:        carts,
		availability: availability,
		orders:       orderSvc,
		sessions:     map[uuid.UUID]*session{},
	}, nil
}

// Start opens (or resumes) a checkout. The cart must be non-empty and
// clean: stale lines block entry until the buyer fixes them.
func (s *service) Start(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	store, err := s.validatedCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = newSession(userID)
		s.sessions[userID] = sess
	}
	return sess.dto(store), nil
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	store, err := s.carts.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}
	return sess.dto(store), nil
}

// SubmitShipping validates the address and moves to payment selection. On
// the first pass it freezes the cart into a pending order; later passes
// rewrite the order's addresses and re-freeze the lines if the cart was
// edited in between.
func (s *service) SubmitShipping(ctx context.Context, userID uuid.UUID, input ShippingInput) (*SessionDTO, error) {
	if missing := input.Shipping.MissingRequiredFields(); len(missing) > 0 {
		return nil, pkgerrors.
			New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(missing)
	}
	billing := input.Billing
	if input.BillingSameAsShipping || billing.IsZero() {
		billing = input.Shipping
	} else if missing := billing.MissingRequiredFields(); len(missing) > 0 {
		return nil, pkgerrors.
			New(pkgerrors.CodeValidation, "billing address is incomplete").
			WithDetails(missing)
	}

	store, err := s.validatedCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}
	if sess.state == StateOrderPlaced {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "checkout already completed")
	}

	sess.shippingAddress = input.Shipping
	sess.billingAddress = billing

	if sess.orderID == nil {
		frozen := freezeCart(store)
		order, err := s.orders.Create(ctx, orders.CreateOrderInput{
			UserID:          userID,
			PaymentMethod:   sess.paymentMethod,
			Lines:           frozen.items,
			ShippingAddress: sess.shippingAddress,
			BillingAddress:  sess.billingAddress,
			SubtotalPKR:     frozen.totals.SubtotalPKR,
			TaxPKR:          frozen.totals.TaxPKR,
			ShippingPKR:     frozen.totals.ShippingPKR,
			TotalPKR:        frozen.totals.TotalPKR,
		})
		if err != nil {
			return nil, err
		}
		sess.orderID = &order.ID
		sess.frozen = frozen
	} else {
		if err := s.orders.UpdateAddresses(ctx, userID, *sess.orderID, sess.shippingAddress, sess.billingAddress); err != nil {
			return nil, err
		}
		if _, err := s.refreeze(ctx, sess, store); err != nil {
			return nil, err
		}
	}

	sess.state = StatePaymentSelection
	return sess.dto(store), nil
}

// SelectPayment records the chosen method and moves to review. The
// transition is unguarded: switching methods back and forth writes nothing
// to the order until confirmation.
func (s *service) SelectPayment(ctx context.Context, userID uuid.UUID, input PaymentInput) (*SessionDTO, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	store, err := s.carts.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}
	if sess.state != StatePaymentSelection && sess.state != StateReviewAndConfirm {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "submit shipping info first")
	}
	if sess.orderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout has no pending order")
	}

	sess.paymentMethod = input.Method
	sess.state = StateReviewAndConfirm
	return sess.dto(store), nil
}

// Back steps to the previous screen. Entered data stays in the session, so
// going forward again re-presents it.
func (s *service) Back(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	store, err := s.carts.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}

	switch sess.state {
	case StateReviewAndConfirm:
		sess.state = StatePaymentSelection
	case StatePaymentSelection:
		sess.state = StateShippingInfo
	case StateShippingInfo:
		// Already at the first step.
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "checkout already completed")
	}
	return sess.dto(store), nil
}

// Confirm finalizes the order: bank transfers first record the buyer's
// transaction reference, then the order moves to confirmed and the cart is
// cleared. Any failure leaves the session in review and the cart intact, so
// the same confirmation can be retried.
func (s *service) Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*SessionDTO, error) {
	store, err := s.validatedCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}
	if sess.state != StateReviewAndConfirm {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "review the order before confirming")
	}
	if sess.orderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout has no pending order")
	}

	changed, err := s.refreeze(ctx, sess, store)
	if err != nil {
		return nil, err
	}
	if changed {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "cart changed during checkout; review the updated order before confirming")
	}

	if sess.paymentMethod.IsBankTransfer() {
		transactionID := strings.TrimSpace(input.TransactionID)
		if transactionID == "" {
			transactionID = sess.transactionID
		}
		if transactionID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank transfers need a transaction id")
		}
		if _, err := s.orders.AttachTransaction(ctx, userID, *sess.orderID, sess.paymentMethod, transactionID); err != nil {
			return nil, err
		}
		sess.transactionID = transactionID
	}

	if _, err := s.orders.Confirm(ctx, userID, *sess.orderID); err != nil {
		return nil, err
	}

	dto := sess.dto(store)
	dto.State = StateOrderPlaced

	if err := store.Clear(ctx); err != nil {
		return nil, err
	}
	delete(s.sessions, userID)
	return dto, nil
}

// refreeze re-syncs the pending order with the cart when the buyer edited
// it mid-checkout. Reports whether the frozen lines moved.
func (s *service) refreeze(ctx context.Context, sess *session, store *cart.Store) (bool, error) {
	frozen := freezeCart(store)
	if sess.frozen != nil && sess.frozen.fingerprint == frozen.fingerprint {
		return false, nil
	}
	if err := s.orders.ReplaceLines(ctx, sess.userID, *sess.orderID, orders.ReplaceLinesInput{
		Lines:       frozen.items,
		SubtotalPKR: frozen.totals.SubtotalPKR,
		TaxPKR:      frozen.totals.TaxPKR,
		ShippingPKR: frozen.totals.ShippingPKR,
		TotalPKR:    frozen.totals.TotalPKR,
	}); err != nil {
		return false, err
	}
	sess.frozen = frozen
	return true, nil
}

// validatedCart opens the cart and gates on freshness: empty carts and
// stale lines both block checkout progress.
func (s *service) validatedCart(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	store, err := s.carts.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "cart is empty")
	}

	snap := store.Snapshot()
	avail, err := s.availability.AvailabilityFor(ctx, snap)
	if err != nil {
		return nil, err
	}
	if err := cart.IssuesError(cart.Validate(snap, avail)); err != nil {
		return nil, err
	}
	return store, nil
}

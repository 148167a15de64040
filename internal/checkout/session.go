package checkout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/internal/cart"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

// State is the checkout step the buyer is on. Transitions are strictly
// linear, with Back allowed between the first three.
type State string

const (
	StateShippingInfo     State = "shipping_info"
	StatePaymentSelection State = "payment_selection"
	StateReviewAndConfirm State = "review_and_confirm"
	StateOrderPlaced      State = "order_placed"
)

// session is one buyer's in-flight checkout. It lives in memory for the
// duration of the flow; the pending order is the durable record.
type session struct {
	userID          uuid.UUID
	state           State
	shippingAddress types.Address
	billingAddress  types.Address
	paymentMethod   enums.PaymentMethod
	transactionID   string
	orderID         *uuid.UUID
	frozen          *frozenCart
}

// frozenCart is the cart exactly as it was written to the pending order.
// Payment and review render from it, not from the live cart, so the buyer
// confirms the numbers the order actually carries.
type frozenCart struct {
	items       []cart.LineItem
	totals      TotalsDTO
	fingerprint string
}

func freezeCart(store *cart.Store) *frozenCart {
	items := store.Snapshot().Lines()
	return &frozenCart{
		items: items,
		totals: TotalsDTO{
			SubtotalPKR: store.Subtotal(),
			TaxPKR:      store.Tax(),
			ShippingPKR: store.Shipping(),
			TotalPKR:    store.Total(),
		},
		fingerprint: cartFingerprint(items),
	}
}

// cartFingerprint is order-insensitive, so re-adding the same lines in a
// different sequence does not count as a change.
func cartFingerprint(items []cart.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, line := range items {
		parts = append(parts, fmt.Sprintf("%s:%s:%d:%s", line.Kind, line.ID, line.Quantity, line.UnitPrice.String()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func newSession(userID uuid.UUID) *session {
	return &session{
		userID:        userID,
		state:         StateShippingInfo,
		paymentMethod: enums.PaymentMethodCashOnDelivery,
	}
}

// TotalsDTO carries the derived money amounts shown on every step.
type TotalsDTO struct {
	SubtotalPKR decimal.Decimal `json:"subtotal_pkr"`
	TaxPKR      decimal.Decimal `json:"tax_pkr"`
	ShippingPKR decimal.Decimal `json:"shipping_pkr"`
	TotalPKR    decimal.Decimal `json:"total_pkr"`
}

// SessionDTO is the API view of the checkout flow.
type SessionDTO struct {
	State           State               `json:"state"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address      `json:"billing_address,omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	TransactionID   string              `json:"transaction_id,omitempty"`
	OrderID         *uuid.UUID          `json:"order_id,omitempty"`
	Items           []cart.LineItem     `json:"items"`
	Totals          TotalsDTO           `json:"totals"`
}

func (s *session) dto(store *cart.Store) *SessionDTO {
	dto := &SessionDTO{
		State:         s.state,
		PaymentMethod: s.paymentMethod,
		TransactionID: s.transactionID,
		OrderID:       s.orderID,
	}
	if !s.shippingAddress.IsZero() {
		shipping := s.shippingAddress
		dto.ShippingAddress = &shipping
	}
	if !s.billingAddress.IsZero() {
		billing := s.billingAddress
		dto.BillingAddress = &billing
	}
	// Past the shipping step the buyer sees the order's frozen lines; the
	// shipping step itself shows the live cart, which the next submit
	// re-freezes.
	if s.frozen != nil && s.state != StateShippingInfo {
		dto.Items = s.frozen.items
		dto.Totals = s.frozen.totals
	} else if store != nil {
		dto.Items = store.Snapshot().Lines()
		dto.Totals = TotalsDTO{
			SubtotalPKR: store.Subtotal(),
			TaxPKR:      store.Tax(),
			ShippingPKR: store.Shipping(),
			TotalPKR:    store.Total(),
		}
	}
	return dto
}

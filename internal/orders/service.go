package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// Service owns the order ledger. Orders are created exactly once per
// checkout pass; while one is still pending its lines can be re-frozen from
// the cart, and Confirm seals it.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	AttachTransaction(ctx context.Context, userID, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) (*OrderDTO, error)
	UpdateAddresses(ctx context.Context, userID, orderID uuid.UUID, shipping, billing types.Address) error
	ReplaceLines(ctx context.Context, userID, orderID uuid.UUID, input ReplaceLinesInput) error
	Confirm(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderPage, error)
	ExpireAbandoned(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CreateOrderInput freezes a validated cart into an order. Totals are
// computed by the cart and carried in, never recomputed here.
type CreateOrderInput struct {
	UserID          uuid.UUID
	PaymentMethod   enums.PaymentMethod
	Lines           []cart.LineItem
	ShippingAddress types.Address
	BillingAddress  types.Address
	SubtotalPKR     decimal.Decimal
	TaxPKR          decimal.Decimal
	ShippingPKR     decimal.Decimal
	TotalPKR        decimal.Decimal
}

// ReplaceLinesInput re-freezes a pending order from the current cart after
// the buyer edited it mid-checkout.
type ReplaceLinesInput struct {
	Lines       []cart.LineItem
	SubtotalPKR decimal.Decimal
	TaxPKR      decimal.Decimal
	ShippingPKR decimal.Decimal
	TotalPKR    decimal.Decimal
}

// ListOrdersInput configures the order history page.
type ListOrdersInput struct {
	Limit  int
	Cursor string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService constructs an order service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	order := &models.Order{
		UserID:          input.UserID,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		SubtotalPKR:     input.SubtotalPKR,
		TaxPKR:          input.TaxPKR,
		ShippingPKR:     input.ShippingPKR,
		TotalPKR:        input.TotalPKR,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		LineItems:       make([]models.OrderLineItem, 0, len(input.Lines)),
	}
	for _, line := range input.Lines {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			EntityID:     line.ID,
			Kind:         line.Kind,
			DisplayName:  line.DisplayName,
			ImageRef:     line.ImageRef,
			UnitPricePKR: line.UnitPrice,
			Quantity:     line.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return toOrderDTO(order), nil
}

// AttachTransaction records the bank transfer reference on a pending order.
// Re-submitting the same reference is a no-op; a different reference on an
// order that already has one is rejected.
func (s *service) AttachTransaction(ctx context.Context, userID, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) (*OrderDTO, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !method.IsBankTransfer() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction ids apply to bank transfers only")
	}

	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUser(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if order.TransactionID != nil {
			if *order.TransactionID == transactionID && order.PaymentMethod == method {
				dto = toOrderDTO(order)
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has a transaction reference")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is no longer pending")
		}

		if err := repo.SetPayment(ctx, order.ID, method, transactionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
		}

		order.PaymentMethod = method
		order.TransactionID = &transactionID
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdateAddresses rewrites the addresses on a still-pending order, used
// when the buyer steps back and edits the shipping form.
func (s *service) UpdateAddresses(ctx context.Context, userID, orderID uuid.UUID, shipping, billing types.Address) error {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is no longer pending")
	}
	if err := s.repo.SetAddresses(ctx, order.ID, shipping, billing); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order addresses")
	}
	return nil
}

// ReplaceLines swaps a pending order's frozen lines and totals for a fresh
// cart snapshot. Rejected once the order has left pending.
func (s *service) ReplaceLines(ctx context.Context, userID, orderID uuid.UUID, input ReplaceLinesInput) error {
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUser(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is no longer pending")
		}

		items := make([]models.OrderLineItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			items = append(items, models.OrderLineItem{
				EntityID:     line.ID,
				Kind:         line.Kind,
				DisplayName:  line.DisplayName,
				ImageRef:     line.ImageRef,
				UnitPricePKR: line.UnitPrice,
				Quantity:     line.Quantity,
			})
		}
		if err := repo.ReplaceLineItems(ctx, order.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace order lines")
		}
		if err := repo.SetTotals(ctx, order.ID, input.SubtotalPKR, input.TaxPKR, input.ShippingPKR, input.TotalPKR); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order totals")
		}
		return nil
	})
}

// Confirm transitions a pending order to confirmed. Confirming an already
// confirmed order is a no-op, so a checkout whose cart clear failed can
// retry safely. Bank transfers must carry their transaction reference first.
func (s *service) Confirm(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUser(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if order.Status == enums.OrderStatusConfirmed {
			dto = toOrderDTO(order)
			return nil
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is no longer pending")
		}
		if order.PaymentMethod.IsBankTransfer() && order.TransactionID == nil {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "bank transfer reference is missing")
		}

		if err := repo.SetStatus(ctx, order.ID, enums.OrderStatusConfirmed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm order")
		}

		order.Status = enums.OrderStatusConfirmed
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderPage, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	orders, err := s.repo.ListByUser(ctx, userID, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := &OrderPage{Items: make([]OrderDTO, 0, len(orders))}
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range orders {
		page.Items = append(page.Items, *toOrderDTO(&orders[i]))
	}
	return page, nil
}

// ExpireAbandoned sweeps pending orders that never received a transaction
// reference within the retention window.
func (s *service) ExpireAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention window must be positive")
	}
	now := s.now()
	expired, err := s.repo.ExpirePendingBefore(ctx, now.Add(-olderThan), now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expire pending orders")
	}
	return expired, nil
}

package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/pagination"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

// Repository handles order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	SetPayment(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) error
	SetAddresses(ctx context.Context, orderID uuid.UUID, shipping, billing types.Address) error
	SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ReplaceLineItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem) error
	SetTotals(ctx context.Context, orderID uuid.UUID, subtotal, tax, shipping, total decimal.Decimal) error
	ExpirePendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first. One extra row beyond
// the limit signals another page.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	tx := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("user_id = ?", userID)

	if cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	err := tx.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&orders).
		Error
	return orders, err
}

func (r *repository) SetPayment(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, transactionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_method": method,
			"transaction_id": transactionID,
		}).
		Error
}

// SetAddresses rewrites both addresses on the order. Struct-based updates
// keep the jsonb serializer in play.
func (r *repository) SetAddresses(ctx context.Context, orderID uuid.UUID, shipping, billing types.Address) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Select("shipping_address", "billing_address").
		Updates(models.Order{ShippingAddress: shipping, BillingAddress: billing}).
		Error
}

func (r *repository) SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).
		Error
}

// ReplaceLineItems swaps the order's frozen lines for a fresh cart snapshot.
// Only sensible while the order is still pending; callers enforce that.
func (r *repository) ReplaceLineItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderLineItem{}).
		Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) SetTotals(ctx context.Context, orderID uuid.UUID, subtotal, tax, shipping, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"subtotal_pkr": subtotal,
			"tax_pkr":      tax,
			"shipping_pkr": shipping,
			"total_pkr":    total,
		}).
		Error
}

// ExpirePendingBefore marks pending orders without a transaction reference
// created before the cutoff as expired. Returns the number of rows touched.
func (r *repository) ExpirePendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND transaction_id IS NULL AND created_at < ?", enums.OrderStatusPending, cutoff).
		Updates(map[string]any{
			"status":     enums.OrderStatusExpired,
			"expired_at": now,
		})
	return result.RowsAffected, result.Error
}

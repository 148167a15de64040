package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

// Order is the server-owned order record. Line items are snapshot copies of
// the cart, re-frozen from it only while the order is still pending.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	TransactionID   *string             `gorm:"column:transaction_id"`
	SubtotalPKR     decimal.Decimal     `gorm:"column:subtotal_pkr;type:numeric(12,2);not null"`
	TaxPKR          decimal.Decimal     `gorm:"column:tax_pkr;type:numeric(12,2);not null"`
	ShippingPKR     decimal.Decimal     `gorm:"column:shipping_pkr;type:numeric(12,2);not null"`
	TotalPKR        decimal.Decimal     `gorm:"column:total_pkr;type:numeric(12,2);not null"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json"`
	LineItems       []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ExpiredAt       *time.Time          `gorm:"column:expired_at"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

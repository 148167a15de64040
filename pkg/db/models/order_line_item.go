package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
)

// OrderLineItem freezes one cart line at the moment the order was created.
type OrderLineItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	EntityID     uuid.UUID       `gorm:"column:entity_id;type:uuid;not null"`
	Kind         enums.ItemKind  `gorm:"column:kind;not null"`
	DisplayName  string          `gorm:"column:display_name;not null"`
	ImageRef     string          `gorm:"column:image_ref"`
	UnitPricePKR decimal.Decimal `gorm:"column:unit_price_pkr;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

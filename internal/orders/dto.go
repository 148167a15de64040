package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

// OrderDTO is the API view of an order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	TransactionID   *string             `json:"transaction_id,omitempty"`
	SubtotalPKR     decimal.Decimal     `json:"subtotal_pkr"`
	TaxPKR          decimal.Decimal     `json:"tax_pkr"`
	ShippingPKR     decimal.Decimal     `json:"shipping_pkr"`
	TotalPKR        decimal.Decimal     `json:"total_pkr"`
	ShippingAddress types.Address       `json:"shipping_address"`
	BillingAddress  types.Address       `json:"billing_address"`
	LineItems       []LineItemDTO       `json:"line_items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// LineItemDTO is the API view of one frozen order line.
type LineItemDTO struct {
	EntityID     uuid.UUID       `json:"entity_id"`
	Kind         enums.ItemKind  `json:"kind"`
	DisplayName  string          `json:"display_name"`
	ImageRef     string          `json:"image_ref,omitempty"`
	UnitPricePKR decimal.Decimal `json:"unit_price_pkr"`
	Quantity     int             `json:"quantity"`
}

// OrderPage is one page of the user's order history.
type OrderPage struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		TransactionID:   order.TransactionID,
		SubtotalPKR:     order.SubtotalPKR,
		TaxPKR:          order.TaxPKR,
		ShippingPKR:     order.ShippingPKR,
		TotalPKR:        order.TotalPKR,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		LineItems:       make([]LineItemDTO, 0, len(order.LineItems)),
		CreatedAt:       order.CreatedAt,
	}
	for _, line := range order.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			EntityID:     line.EntityID,
			Kind:         line.Kind,
			DisplayName:  line.DisplayName,
			ImageRef:     line.ImageRef,
			UnitPricePKR: line.UnitPricePKR,
			Quantity:     line.Quantity,
		})
	}
	return dto
}

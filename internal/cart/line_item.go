package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
)

// LineItem is the normalized cart entry. It is constructed once at the
// boundary where catalog entities enter the cart, so internal logic never
// coalesces alternate field spellings.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Kind        enums.ItemKind  `json:"kind"`
	DisplayName string          `json:"display_name"`
	ImageRef    string          `json:"image_ref,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`

	// AvailableStock is the product stock snapshot taken at add time. It is
	// used for clamping and validation, never as authoritative truth.
	AvailableStock int `json:"available_stock,omitempty"`

	// PetStatus is the pet availability snapshot taken at add time.
	PetStatus enums.PetStatus `json:"pet_status,omitempty"`
}

// ProductLine normalizes a catalog product into a cart line.
func ProductLine(p *models.Product) LineItem {
	return LineItem{
		ID:             p.ID,
		Kind:           enums.ItemKindProduct,
		DisplayName:    p.Name,
		ImageRef:       p.ImageURL,
		UnitPrice:      p.PricePKR,
		Quantity:       1,
		AvailableStock: p.StockQty,
	}
}

// PetLine normalizes a catalog pet into a cart line. Pets are non-fungible,
// so the quantity is always one.
func PetLine(p *models.Pet) LineItem {
	return LineItem{
		ID:          p.ID,
		Kind:        enums.ItemKindPet,
		DisplayName: p.Name,
		ImageRef:    p.ImageURL,
		UnitPrice:   p.PricePKR,
		Quantity:    1,
		PetStatus:   p.Status,
	}
}

// LineTotal is the line's price contribution.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) wellFormed() bool {
	if l.ID == uuid.Nil || !l.Kind.IsValid() {
		return false
	}
	if l.UnitPrice.IsNegative() || l.Quantity < 1 {
		return false
	}
	if l.Kind == enums.ItemKindPet && l.Quantity != 1 {
		return false
	}
	return true
}

// Snapshot is a copy of the cart contents, safe to hold across mutations.
type Snapshot struct {
	Products []LineItem `json:"products"`
	Pets     []LineItem `json:"pets"`
}

// Lines returns all entries, products first.
func (s Snapshot) Lines() []LineItem {
	out := make([]LineItem, 0, len(s.Products)+len(s.Pets))
	out = append(out, s.Products...)
	out = append(out, s.Pets...)
	return out
}

// IsEmpty reports whether the snapshot holds no entries.
func (s Snapshot) IsEmpty() bool {
	return len(s.Products) == 0 && len(s.Pets) == 0
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/pagination"
)

// ProductDTO is the storefront view of a product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	PricePKR    decimal.Decimal `json:"price_pkr"`
	StockQty    int             `json:"stock_qty"`
	InStock     bool            `json:"in_stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PetDTO is the storefront view of a pet listing.
type PetDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Species     string          `json:"species"`
	Breed       string          `json:"breed,omitempty"`
	AgeMonths   int             `json:"age_months,omitempty"`
	Description string          `json:"description,omitempty"`
	PricePKR    decimal.Decimal `json:"price_pkr"`
	Status      enums.PetStatus `json:"status"`
	ImageURL    string          `json:"image_url,omitempty"`
	PhotoURLs   []string        `json:"photo_urls,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// PetPage is one page of the pet listing.
type PetPage struct {
	Items      []PetDTO `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

func toProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		PricePKR:    p.PricePKR,
		StockQty:    p.StockQty,
		InStock:     p.StockQty > 0,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func toPetDTO(p *models.Pet) PetDTO {
	return PetDTO{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		AgeMonths:   p.AgeMonths,
		Description: p.Description,
		PricePKR:    p.PricePKR,
		Status:      p.Status,
		ImageURL:    p.ImageURL,
		PhotoURLs:   p.PhotoURLs,
		CreatedAt:   p.CreatedAt,
	}
}

func productCursor(last models.Product) string {
	return pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
}

func petCursor(last models.Pet) string {
	return pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
}

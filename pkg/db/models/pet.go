package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
)

// Pet is a non-fungible catalog entity: one listing, one animal.
type Pet struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Species     string          `gorm:"column:species;not null"`
	Breed       string          `gorm:"column:breed"`
	AgeMonths   int             `gorm:"column:age_months"`
	Description string          `gorm:"column:description"`
	PricePKR    decimal.Decimal `gorm:"column:price_pkr;type:numeric(12,2);not null"`
	Status      enums.PetStatus `gorm:"column:status;not null;default:'available'"`
	ImageURL    string          `gorm:"column:image_url"`
	PhotoURLs   pq.StringArray  `gorm:"column:photo_urls;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

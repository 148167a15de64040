package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	"github.com/petbazaar/petbazaar-backend/pkg/pagination"
)

// Repository wires catalog persistence for products and pets.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProductByID loads a product regardless of active flag.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPetByID loads a pet regardless of status.
func (r *Repository) FindPetByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// ProductQuery filters the storefront product listing.
type ProductQuery struct {
	Category string
	Search   string
	Limit    int
	Cursor   *pagination.Cursor
}

// ListProducts returns active products newest first. One extra row beyond
// the limit signals another page.
func (r *Repository) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.Search != "" {
		tx = tx.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if query.Cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var products []models.Product
	err := tx.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Find(&products).
		Error
	return products, err
}

// PetQuery filters the storefront pet listing.
type PetQuery struct {
	Species string
	Status  enums.PetStatus
	Limit   int
	Cursor  *pagination.Cursor
}

// ListPets returns pets newest first, optionally narrowed by species and
// status.
func (r *Repository) ListPets(ctx context.Context, query PetQuery) ([]models.Pet, error) {
	tx := r.db.WithContext(ctx).Model(&models.Pet{})

	if query.Species != "" {
		tx = tx.Where("species = ?", query.Species)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.Cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var pets []models.Pet
	err := tx.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Find(&pets).
		Error
	return pets, err
}

// ProductStockByIDs returns current stock for active products among ids.
// Missing entries mean the product is gone or delisted.
func (r *Repository) ProductStockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	stock := map[uuid.UUID]int{}
	if len(ids) == 0 {
		return stock, nil
	}

	type row struct {
		ID       uuid.UUID
		StockQty int
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "stock_qty").
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		stock[r.ID] = r.StockQty
	}
	return stock, nil
}

// PetStatusByIDs returns the current status of each known pet among ids.
func (r *Repository) PetStatusByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]enums.PetStatus, error) {
	statuses := map[uuid.UUID]enums.PetStatus{}
	if len(ids) == 0 {
		return statuses, nil
	}

	type row struct {
		ID     uuid.UUID
		Status enums.PetStatus
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Select("id", "status").
		Where("id IN ?", ids).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		statuses[r.ID] = r.Status
	}
	return statuses, nil
}

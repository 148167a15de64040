package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
)

// Repository handles wishlist persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, item *models.WishlistItem) (bool, error)
	Delete(ctx context.Context, userID, entityID uuid.UUID, kind enums.ItemKind) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	PetsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error)
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	PetExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wishlist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert inserts the like, ignoring duplicates. Returns whether a new row
// was created.
func (r *repository) Upsert(ctx context.Context, item *models.WishlistItem) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the like if present. Returns whether a row was removed.
func (r *repository) Delete(ctx context.Context, userID, entityID uuid.UUID, kind enums.ItemKind) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND entity_id = ? AND kind = ?", userID, entityID, kind).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}

func (r *repository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *repository) PetsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pets []models.Pet
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pets).Error
	return pets, err
}

func (r *repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}

func (r *repository) PetExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}

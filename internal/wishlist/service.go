package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
)

// Service tracks the products and pets a user has liked. Adds are
// idempotent and removes are forgiving; only liking something that does
// not exist is an error.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, kind enums.ItemKind, entityID uuid.UUID) error
	Remove(ctx context.Context, userID uuid.UUID, kind enums.ItemKind, entityID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
}

// ItemDTO is one liked entity, hydrated with current catalog data so the
// client can render it directly.
type ItemDTO struct {
	EntityID uuid.UUID       `json:"entity_id"`
	Kind     enums.ItemKind  `json:"kind"`
	Name     string          `json:"name"`
	PricePKR decimal.Decimal `json:"price_pkr"`
	ImageURL string          `json:"image_url,omitempty"`
	// InStock is false for delisted products; for pets it means the pet is
	// still available.
	InStock bool            `json:"in_stock"`
	Status  enums.PetStatus `json:"status,omitempty"`
	LikedAt time.Time       `json:"liked_at"`
}

type service struct {
	repo Repository
}

// NewService constructs a wishlist service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, kind enums.ItemKind, entityID uuid.UUID) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}

	var exists bool
	var err error
	switch kind {
	case enums.ItemKindProduct:
		exists, err = s.repo.ProductExists(ctx, entityID)
	case enums.ItemKindPet:
		exists, err = s.repo.PetExists(ctx, entityID)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check wishlist target")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	if _, err := s.repo.Upsert(ctx, &models.WishlistItem{
		UserID:   userID,
		EntityID: entityID,
		Kind:     kind,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID uuid.UUID, kind enums.ItemKind, entityID uuid.UUID) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}
	if _, err := s.repo.Delete(ctx, userID, entityID, kind); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return nil
}

// List hydrates the user's likes with current catalog data. Entities that
// vanished from the catalog are dropped from the result.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}

	var productIDs, petIDs []uuid.UUID
	for _, item := range items {
		switch item.Kind {
		case enums.ItemKindProduct:
			productIDs = append(productIDs, item.EntityID)
		case enums.ItemKindPet:
			petIDs = append(petIDs, item.EntityID)
		}
	}

	products, err := s.repo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist products")
	}
	pets, err := s.repo.PetsByIDs(ctx, petIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist pets")
	}

	productByID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	petByID := make(map[uuid.UUID]models.Pet, len(pets))
	for _, p := range pets {
		petByID[p.ID] = p
	}

	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case enums.ItemKindProduct:
			p, ok := productByID[item.EntityID]
			if !ok {
				continue
			}
			out = append(out, ItemDTO{
				EntityID: p.ID,
				Kind:     enums.ItemKindProduct,
				Name:     p.Name,
				PricePKR: p.PricePKR,
				ImageURL: p.ImageURL,
				InStock:  p.IsActive && p.StockQty > 0,
				LikedAt:  item.CreatedAt,
			})
		case enums.ItemKindPet:
			p, ok := petByID[item.EntityID]
			if !ok {
				continue
			}
			out = append(out, ItemDTO{
				EntityID: p.ID,
				Kind:     enums.ItemKindPet,
				Name:     p.Name,
				PricePKR: p.PricePKR,
				ImageURL: p.ImageURL,
				InStock:  p.Status == enums.PetStatusAvailable,
				Status:   p.Status,
				LikedAt:  item.CreatedAt,
			})
		}
	}
	return out, nil
}

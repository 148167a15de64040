package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petbazaar/petbazaar-backend/internal/cart"
	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/pagination"
)

// Service exposes the storefront catalog read paths. It is also the single
// source of availability data for cart validation and checkout: both consult
// it instead of reading the database directly.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListPets(ctx context.Context, input ListPetsInput) (*PetPage, error)
	GetPet(ctx context.Context, id uuid.UUID) (*PetDTO, error)
	CartLine(ctx context.Context, kind enums.ItemKind, id uuid.UUID) (cart.LineItem, error)
	AvailabilityFor(ctx context.Context, snap cart.Snapshot) (cart.Availability, error)
}

// ListProductsInput filters the product listing.
type ListProductsInput struct {
	Category string
	Search   string
	Limit    int
	Cursor   string
}

// ListPetsInput filters the pet listing.
type ListPetsInput struct {
	Species string
	Status  string
	Limit   int
	Cursor  string
}

type repository interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindPetByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, error)
	ListPets(ctx context.Context, query PetQuery) ([]models.Pet, error)
	ProductStockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	PetStatusByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]enums.PetStatus, error)
}

type service struct {
	repo repository
}

// NewService constructs a catalog service instance.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	products, err := s.repo.ListProducts(ctx, ProductQuery{
		Category: input.Category,
		Search:   input.Search,
		Limit:    limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page := &ProductPage{Items: make([]ProductDTO, 0, len(products))}
	if len(products) > limit {
		products = products[:limit]
		page.NextCursor = productCursor(products[limit-1])
	}
	for i := range products {
		page.Items = append(page.Items, toProductDTO(&products[i]))
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.activeProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(product)
	return &dto, nil
}

func (s *service) ListPets(ctx context.Context, input ListPetsInput) (*PetPage, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var status enums.PetStatus
	if input.Status != "" {
		status, err = enums.ParsePetStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pet status")
		}
	}

	limit := pagination.NormalizeLimit(input.Limit)
	pets, err := s.repo.ListPets(ctx, PetQuery{
		Species: input.Species,
		Status:  status,
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pets")
	}

	page := &PetPage{Items: make([]PetDTO, 0, len(pets))}
	if len(pets) > limit {
		pets = pets[:limit]
		page.NextCursor = petCursor(pets[limit-1])
	}
	for i := range pets {
		page.Items = append(page.Items, toPetDTO(&pets[i]))
	}
	return page, nil
}

func (s *service) GetPet(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	pet, err := s.repo.FindPetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pet")
	}
	dto := toPetDTO(pet)
	return &dto, nil
}

// CartLine loads the entity and normalizes it for the cart. Stock and
// status are snapshotted here, at add time.
func (s *service) CartLine(ctx context.Context, kind enums.ItemKind, id uuid.UUID) (cart.LineItem, error) {
	switch kind {
	case enums.ItemKindProduct:
		product, err := s.activeProduct(ctx, id)
		if err != nil {
			return cart.LineItem{}, err
		}
		if product.StockQty < 1 {
			return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeStaleInventory, "product is out of stock")
		}
		return cart.ProductLine(product), nil

	case enums.ItemKindPet:
		pet, err := s.repo.FindPetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
			}
			return cart.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pet")
		}
		if pet.Status != enums.PetStatusAvailable {
			return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeStaleInventory, "pet is no longer available")
		}
		return cart.PetLine(pet), nil

	default:
		return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}
}

// AvailabilityFor fetches fresh stock and status for every entity the
// snapshot references.
func (s *service) AvailabilityFor(ctx context.Context, snap cart.Snapshot) (cart.Availability, error) {
	productIDs := make([]uuid.UUID, 0, len(snap.Products))
	for _, line := range snap.Products {
		productIDs = append(productIDs, line.ID)
	}
	petIDs := make([]uuid.UUID, 0, len(snap.Pets))
	for _, line := range snap.Pets {
		petIDs = append(petIDs, line.ID)
	}

	stock, err := s.repo.ProductStockByIDs(ctx, productIDs)
	if err != nil {
		return cart.Availability{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product stock")
	}
	statuses, err := s.repo.PetStatusByIDs(ctx, petIDs)
	if err != nil {
		return cart.Availability{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pet statuses")
	}

	return cart.Availability{ProductStock: stock, PetStatus: statuses}, nil
}

func (s *service) activeProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petbazaar/petbazaar-backend/pkg/db/models"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
)

type stubRepo struct {
	upsertFn        func(ctx context.Context, item *models.WishlistItem) (bool, error)
	deleteFn        func(ctx context.Context, userID, entityID uuid.UUID, kind enums.ItemKind) (bool, error)
	listByUserFn    func(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	productsByIDsFn func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	petsByIDsFn     func(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error)
	productExistsFn func(ctx context.Context, id uuid.UUID) (bool, error)
	petExistsFn     func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Upsert(ctx context.Context, item *models.WishlistItem) (bool, error) {
	return s.upsertFn(ctx, item)
}

func (s *stubRepo) Delete(ctx context.Context, userID, entityID uuid.UUID, kind enums.ItemKind) (bool, error) {
	return s.deleteFn(ctx, userID, entityID, kind)
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *stubRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.productsByIDsFn(ctx, ids)
}

func (s *stubRepo) PetsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error) {
	return s.petsByIDsFn(ctx, ids)
}

func (s *stubRepo) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.productExistsFn(ctx, id)
}

func (s *stubRepo) PetExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.petExistsFn(ctx, id)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddChecksEntityExists(t *testing.T) {
	svc := newTestService(t, &stubRepo{
		productExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return false, nil
		},
	})

	err := svc.Add(context.Background(), uuid.New(), enums.ItemKindProduct, uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	var upserts int
	svc := newTestService(t, &stubRepo{
		petExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		upsertFn: func(_ context.Context, item *models.WishlistItem) (bool, error) {
			upserts++
			// Second call hits the unique index and inserts nothing.
			return upserts == 1, nil
		},
	})

	userID := uuid.New()
	petID := uuid.New()
	if err := svc.Add(context.Background(), userID, enums.ItemKindPet, petID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.Add(context.Background(), userID, enums.ItemKindPet, petID); err != nil {
		t.Fatalf("second add must be a no-op, got %v", err)
	}
	if upserts != 2 {
		t.Fatalf("expected 2 upsert attempts, got %d", upserts)
	}
}

func TestRemoveMissingItemIsNoOp(t *testing.T) {
	svc := newTestService(t, &stubRepo{
		deleteFn: func(_ context.Context, _, _ uuid.UUID, _ enums.ItemKind) (bool, error) {
			return false, nil
		},
	})

	if err := svc.Remove(context.Background(), uuid.New(), enums.ItemKindProduct, uuid.New()); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestListHydratesAndDropsVanished(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	goneProductID := uuid.New()
	petID := uuid.New()
	likedAt := time.Now()

	svc := newTestService(t, &stubRepo{
		listByUserFn: func(_ context.Context, _ uuid.UUID) ([]models.WishlistItem, error) {
			return []models.WishlistItem{
				{UserID: userID, EntityID: productID, Kind: enums.ItemKindProduct, CreatedAt: likedAt},
				{UserID: userID, EntityID: goneProductID, Kind: enums.ItemKindProduct, CreatedAt: likedAt},
				{UserID: userID, EntityID: petID, Kind: enums.ItemKindPet, CreatedAt: likedAt},
			}, nil
		},
		productsByIDsFn: func(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
			if len(ids) != 2 {
				t.Fatalf("expected 2 product ids, got %d", len(ids))
			}
			return []models.Product{
				{ID: productID, Name: "Cat Tower", PricePKR: decimal.NewFromInt(4500), StockQty: 3, IsActive: true},
			}, nil
		},
		petsByIDsFn: func(_ context.Context, ids []uuid.UUID) ([]models.Pet, error) {
			return []models.Pet{
				{ID: petID, Name: "Coco", Species: "parrot", PricePKR: decimal.NewFromInt(6000), Status: enums.PetStatusAdopted},
			}, nil
		},
	})

	items, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("vanished product must be dropped, got %d items", len(items))
	}
	if items[0].EntityID != productID || !items[0].InStock {
		t.Fatalf("unexpected product item %+v", items[0])
	}
	if items[1].EntityID != petID || items[1].InStock || items[1].Status != enums.PetStatusAdopted {
		t.Fatalf("unexpected pet item %+v", items[1])
	}
}

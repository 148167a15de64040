package cart

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/money"
)

// Store holds one user's intended purchase: two disjoint ordered
// collections of products and pets, keyed by entity id. It is an explicit
// object injected where needed, never a global, and is the single owner of
// the persistence side effect: every mutation writes through to the
// snapshotter before returning.
//
// Totals are derived on every read, never cached.
type Store struct {
	ownerID   uuid.UUID
	pricing   money.Pricing
	snapshots Snapshotter
	products  []LineItem
	pets      []LineItem
}

// Open rehydrates the user's cart from durable storage. A missing snapshot
// yields an empty cart; a malformed one is wiped and the cart starts empty
// rather than failing the request.
func Open(ctx context.Context, ownerID uuid.UUID, pricing money.Pricing, snapshots Snapshotter) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	store := &Store{
		ownerID:   ownerID,
		pricing:   pricing,
		snapshots: snapshots,
	}
	if snapshots == nil {
		return store, nil
	}

	payload, err := snapshots.Load(ctx, ownerID)
	if err != nil {
		if err == ErrNoSnapshot {
			return store, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var persisted Snapshot
	if jsonErr := json.Unmarshal(payload, &persisted); jsonErr != nil || !snapshotWellFormed(persisted) {
		if delErr := snapshots.Delete(ctx, ownerID); delErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "wipe corrupt cart snapshot")
		}
		return store, nil
	}

	store.products = persisted.Products
	store.pets = persisted.Pets
	return store, nil
}

func snapshotWellFormed(snap Snapshot) bool {
	seen := map[uuid.UUID]struct{}{}
	for _, line := range snap.Products {
		if !line.wellFormed() || line.Kind != enums.ItemKindProduct {
			return false
		}
		if _, dup := seen[line.ID]; dup {
			return false
		}
		seen[line.ID] = struct{}{}
	}
	seen = map[uuid.UUID]struct{}{}
	for _, line := range snap.Pets {
		if !line.wellFormed() || line.Kind != enums.ItemKindPet {
			return false
		}
		if _, dup := seen[line.ID]; dup {
			return false
		}
		seen[line.ID] = struct{}{}
	}
	return true
}

// OwnerID identifies the user the cart belongs to.
func (s *Store) OwnerID() uuid.UUID {
	return s.ownerID
}

// AddItem inserts a normalized line. The line's quantity is how many units
// to add (defaulting to one); re-adding an existing product bumps its
// quantity by that amount, clamped to the stock snapshot. Re-adding an
// existing pet is a no-op and pet quantities are pinned to one (pets are
// non-fungible).
func (s *Store) AddItem(ctx context.Context, line LineItem) error {
	if !line.wellFormed() {
		return pkgerrors.New(pkgerrors.CodeValidation, "malformed cart line")
	}
	requested := line.Quantity
	if requested < 1 {
		requested = 1
	}

	switch line.Kind {
	case enums.ItemKindProduct:
		if idx := indexOf(s.products, line.ID); idx >= 0 {
			existing := &s.products[idx]
			existing.Quantity = clampQuantity(existing.Quantity+requested, existing.AvailableStock)
		} else {
			line.Quantity = clampQuantity(requested, line.AvailableStock)
			s.products = append(s.products, line)
		}
	case enums.ItemKindPet:
		if indexOf(s.pets, line.ID) >= 0 {
			return nil
		}
		line.Quantity = 1
		s.pets = append(s.pets, line)
	}

	return s.persist(ctx)
}

// RemoveItem drops the line if present; absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, id uuid.UUID, kind enums.ItemKind) error {
	switch kind {
	case enums.ItemKindProduct:
		idx := indexOf(s.products, id)
		if idx < 0 {
			return nil
		}
		s.products = append(s.products[:idx], s.products[idx+1:]...)
	case enums.ItemKindPet:
		idx := indexOf(s.pets, id)
		if idx < 0 {
			return nil
		}
		s.pets = append(s.pets[:idx], s.pets[idx+1:]...)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}
	return s.persist(ctx)
}

// SetQuantity adjusts a product line. Quantities below one remove the line;
// anything else is clamped to [1, stock snapshot]. Pet lines reject any
// quantity other than one.
func (s *Store) SetQuantity(ctx context.Context, id uuid.UUID, kind enums.ItemKind, quantity int) error {
	if kind == enums.ItemKindPet {
		if quantity == 1 {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "pets are non-fungible; quantity is always one")
	}
	if kind != enums.ItemKindProduct {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}

	idx := indexOf(s.products, id)
	if idx < 0 {
		return nil
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, id, kind)
	}
	s.products[idx].Quantity = clampQuantity(quantity, s.products[idx].AvailableStock)
	return s.persist(ctx)
}

// Clear empties both collections and removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.products = nil
	s.pets = nil
	if s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Delete(ctx, s.ownerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart snapshot")
	}
	return nil
}

// IsEmpty reports whether both collections are empty.
func (s *Store) IsEmpty() bool {
	return len(s.products) == 0 && len(s.pets) == 0
}

// Snapshot copies the current contents.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{}
	if len(s.products) > 0 {
		snap.Products = append([]LineItem(nil), s.products...)
	}
	if len(s.pets) > 0 {
		snap.Pets = append([]LineItem(nil), s.pets...)
	}
	return snap
}

// Subtotal sums unit price times quantity over every line.
func (s *Store) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.products {
		sum = sum.Add(line.LineTotal())
	}
	for _, line := range s.pets {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

// Tax derives the tax due on the current subtotal.
func (s *Store) Tax() decimal.Decimal {
	return s.pricing.Tax(s.Subtotal())
}

// Shipping derives the shipping charge. Empty carts ship nothing.
func (s *Store) Shipping() decimal.Decimal {
	if s.IsEmpty() {
		return decimal.Zero
	}
	return s.pricing.Shipping(s.Subtotal())
}

// Total is subtotal plus tax plus shipping.
func (s *Store) Total() decimal.Decimal {
	subtotal := s.Subtotal()
	total := subtotal.Add(s.pricing.Tax(subtotal))
	if !s.IsEmpty() {
		total = total.Add(s.pricing.Shipping(subtotal))
	}
	return total
}

func (s *Store) persist(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	payload, err := json.Marshal(s.Snapshot())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.snapshots.Save(ctx, s.ownerID, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart snapshot")
	}
	return nil
}

// clampQuantity bounds a product quantity to [1, stock]. A depleted stock
// snapshot still leaves one unit so the line survives for the validator to
// flag.
func clampQuantity(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

func indexOf(lines []LineItem, id uuid.UUID) int {
	for i, line := range lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

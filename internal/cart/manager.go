package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/petbazaar/petbazaar-backend/pkg/money"
)

// Manager binds the pricing policy and snapshot storage so callers can open
// per-user carts without carrying either around.
type Manager struct {
	pricing   money.Pricing
	snapshots Snapshotter
}

// NewManager constructs the cart manager.
func NewManager(pricing money.Pricing, snapshots Snapshotter) (*Manager, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("cart snapshotter required")
	}
	return &Manager{pricing: pricing, snapshots: snapshots}, nil
}

// Open rehydrates the user's cart.
func (m *Manager) Open(ctx context.Context, ownerID uuid.UUID) (*Store, error) {
	return Open(ctx, ownerID, m.pricing, m.snapshots)
}

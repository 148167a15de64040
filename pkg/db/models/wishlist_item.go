package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
)

// WishlistItem marks a product or pet a user has liked. One row per
// (user, entity, kind); adds are idempotent at the repository level.
type WishlistItem struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_entity,priority:1"`
	EntityID  uuid.UUID      `gorm:"column:entity_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_entity,priority:2"`
	Kind      enums.ItemKind `gorm:"column:kind;not null;uniqueIndex:idx_wishlist_user_entity,priority:3"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/types"
)

// CartItem is one product+variant configuration in a cart. Title, Image,
// UnitPrice and the shipping fields are snapshots frozen at add time; they are
// not re-synced when the catalog changes.
type CartItem struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID              `gorm:"column:cart_id;type:uuid;not null;index"`
	ItemKey          string                 `gorm:"column:item_key;not null"`
	ProductID        uuid.UUID              `gorm:"column:product_id;type:uuid;not null"`
	Title            string                 `gorm:"column:title;not null"`
	Image            string                 `gorm:"column:image"`
	UnitPrice        int                    `gorm:"column:unit_price;not null"`
	Count            int                    `gorm:"column:count;not null"`
	StockAtAdd       int                    `gorm:"column:stock_at_add;not null;default:0"`
	FreeShipping     bool                   `gorm:"column:free_shipping;not null;default:false"`
	DeliveryCharges  int                    `gorm:"column:delivery_charges;not null;default:0"`
	SelectedVariants types.SelectedVariants `gorm:"column:selected_variants;type:jsonb;serializer:json"`
	SelectedTier     *types.TierSnapshot    `gorm:"column:selected_tier;type:jsonb;serializer:json"`
	Position         int                    `gorm:"column:position;not null;default:0"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

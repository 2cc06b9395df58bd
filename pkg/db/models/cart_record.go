package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/enums"
)

// CartRecord is the single active cart held for an owner key. The aggregate
// columns are derived from Items and rewritten on every mutation, never
// adjusted independently.
type CartRecord struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerKey        string              `gorm:"column:owner_key;not null;uniqueIndex"`
	OwnerKind       enums.CartOwnerKind `gorm:"column:owner_kind;not null"`
	CartTotal       int                 `gorm:"column:cart_total;not null;default:0"`
	FreeShipping    bool                `gorm:"column:free_shipping;not null;default:false"`
	DeliveryCharges int                 `gorm:"column:delivery_charges;not null;default:0"`
	Items           []CartItem          `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

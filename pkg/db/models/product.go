package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/types"
)

// Product is the canonical catalog listing. All amounts are whole rupees.
type Product struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title             string                `gorm:"column:title;not null"`
	Description       *string               `gorm:"column:description"`
	Image             string                `gorm:"column:image;not null"`
	Price             int                   `gorm:"column:price;not null"`
	SalePrice         *int                  `gorm:"column:sale_price"`
	Stock             int                   `gorm:"column:stock;not null;default:0"`
	FreeShipping      bool                  `gorm:"column:free_shipping;not null;default:false"`
	IsDod             bool                  `gorm:"column:is_dod;not null;default:false"`
	DodPrice          *int                  `gorm:"column:dod_price"`
	DodEnd            *time.Time            `gorm:"column:dod_end"`
	Variants          types.ProductVariants `gorm:"column:variants;type:jsonb;serializer:json"`
	VolumeTierEnabled bool                  `gorm:"column:volume_tier_enabled;not null;default:false"`
	VolumeTiers       types.VolumeTiers     `gorm:"column:volume_tiers;type:jsonb;serializer:json"`
	IsActive          bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

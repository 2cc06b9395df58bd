package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/internal/pricing"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// ProductDTO is the catalog shape returned to storefront clients. The
// effective price and discount badge are resolved server-side with no
// variant/tier selection applied.
type ProductDTO struct {
	ID                uuid.UUID             `json:"id"`
	Title             string                `json:"title"`
	Description       *string               `json:"description,omitempty"`
	Image             string                `json:"image"`
	Price             int                   `json:"price"`
	SalePrice         *int                  `json:"sale_price,omitempty"`
	EffectivePrice    int                   `json:"effective_price"`
	DiscountPercent   *int                  `json:"discount_percent,omitempty"`
	Stock             int                   `json:"stock"`
	FreeShipping      bool                  `json:"free_shipping"`
	IsDod             bool                  `json:"is_dod"`
	DodPrice          *int                  `json:"dod_price,omitempty"`
	DodEnd            *time.Time            `json:"dod_end,omitempty"`
	Variants          types.ProductVariants `json:"variants,omitempty"`
	VolumeTierEnabled bool                  `json:"volume_tier_enabled"`
	VolumeTiers       types.VolumeTiers     `json:"volume_tiers,omitempty"`
}

// QuoteDTO is the resolved price for one product configuration.
type QuoteDTO struct {
	ProductID       uuid.UUID           `json:"product_id"`
	UnitPrice       int                 `json:"unit_price"`
	Image           string              `json:"image"`
	Source          string              `json:"source"`
	DiscountPercent *int                `json:"discount_percent,omitempty"`
	Tier            *types.TierSnapshot `json:"tier,omitempty"`
}

// ToDTO maps a product row to its catalog shape at the given instant.
func ToDTO(p *models.Product, now time.Time) ProductDTO {
	quote := pricing.Resolve(p, pricing.Selection{}, now)
	return ProductDTO{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Image:             p.Image,
		Price:             p.Price,
		SalePrice:         p.SalePrice,
		EffectivePrice:    quote.UnitPrice,
		DiscountPercent:   pricing.DiscountPercent(p.Price, quote.UnitPrice),
		Stock:             p.Stock,
		FreeShipping:      p.FreeShipping,
		IsDod:             p.IsDod,
		DodPrice:          p.DodPrice,
		DodEnd:            p.DodEnd,
		Variants:          p.Variants,
		VolumeTierEnabled: p.VolumeTierEnabled,
		VolumeTiers:       p.VolumeTiers,
	}
}

package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// Source identifies which rule produced the effective unit price.
type Source string

const (
	SourceTier    Source = "tier"
	SourceVariant Source = "variant"
	SourceDod     Source = "dod"
	SourceSale    Source = "sale"
	SourceBase    Source = "base"
)

// Selection captures the shopper's current configuration on a product page.
type Selection struct {
	Variants  types.SelectedVariants
	TierIndex *int
}

// Quote is the resolved unit price plus the display image that goes with it.
type Quote struct {
	UnitPrice int
	Image     string
	Source    Source
	Tier      *types.TierSnapshot
}

// Resolve computes the effective unit price for a product configuration.
//
// Precedence, highest first: a selected volume tier overrides everything;
// otherwise the sum of selected variant-value price overrides applies when at
// least one selected value carries one; otherwise an active deal-of-the-day
// price, then sale price, then base price. A tier index outside the tier list
// counts as no selection.
func Resolve(product *models.Product, sel Selection, now time.Time) Quote {
	if tier, ok := selectedTier(product, sel.TierIndex); ok {
		q := Quote{
			UnitPrice: tier.Price,
			Image:     product.Image,
			Source:    SourceTier,
			Tier: &types.TierSnapshot{
				Quantity: tier.Quantity,
				Price:    tier.Price,
				Image:    tier.Image,
			},
		}
		if tier.Image != nil && *tier.Image != "" {
			q.Image = *tier.Image
		}
		return q
	}

	if sum, image, ok := variantPriceSum(product, sel.Variants); ok {
		q := Quote{UnitPrice: sum, Image: product.Image, Source: SourceVariant}
		if image != "" {
			q.Image = image
		}
		return q
	}

	if dodActive(product, now) {
		return Quote{UnitPrice: *product.DodPrice, Image: product.Image, Source: SourceDod}
	}

	if product.SalePrice != nil && *product.SalePrice > 0 {
		return Quote{UnitPrice: *product.SalePrice, Image: product.Image, Source: SourceSale}
	}

	return Quote{UnitPrice: product.Price, Image: product.Image, Source: SourceBase}
}

func selectedTier(product *models.Product, idx *int) (types.VolumeTier, bool) {
	if !product.VolumeTierEnabled || idx == nil {
		return types.VolumeTier{}, false
	}
	if *idx < 0 || *idx >= len(product.VolumeTiers) {
		return types.VolumeTier{}, false
	}
	return product.VolumeTiers[*idx], true
}

// variantPriceSum adds the per-value price overrides of every selected value.
// The sum only applies when at least one selected value carries an override;
// the first selected value carrying an image wins the display image.
func variantPriceSum(product *models.Product, selected types.SelectedVariants) (int, string, bool) {
	sum := 0
	image := ""
	hasPrice := false

	for _, choice := range selected {
		group, ok := product.Variants.ByName(choice.Name)
		if !ok {
			continue
		}
		for _, value := range choice.Values {
			entry, ok := group.Value(value)
			if !ok {
				continue
			}
			if entry.Price != nil {
				sum += *entry.Price
				hasPrice = true
			}
			if image == "" && entry.Image != nil && *entry.Image != "" {
				image = *entry.Image
			}
		}
	}

	return sum, image, hasPrice
}

func dodActive(product *models.Product, now time.Time) bool {
	if !product.IsDod || product.DodPrice == nil {
		return false
	}
	if product.DodEnd != nil && !product.DodEnd.After(now) {
		return false
	}
	return true
}

// DiscountPercent returns the rounded percentage saved against the base
// price, or nil when there is no positive saving to show.
func DiscountPercent(basePrice, effectivePrice int) *int {
	if basePrice <= 0 || effectivePrice >= basePrice {
		return nil
	}

	saved := decimal.NewFromInt(int64(basePrice - effectivePrice))
	pct := saved.
		Div(decimal.NewFromInt(int64(basePrice))).
		Mul(decimal.NewFromInt(100)).
		Round(0)

	value := int(pct.IntPart())
	if value <= 0 {
		return nil
	}
	return &value
}

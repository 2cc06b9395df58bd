package cart

import (
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
)

// Aggregates holds the derived cart-level fields recomputed after every
// mutation. They are never adjusted incrementally.
type Aggregates struct {
	CartTotal       int
	FreeShipping    bool
	DeliveryCharges int
}

// recomputeAggregates derives the cart totals from the full item set.
// FreeShipping holds only when the cart is non-empty and every line ships
// free; a single paid line puts the flat cart fee back on.
func recomputeAggregates(items []models.CartItem, cfg config.CartConfig) Aggregates {
	if len(items) == 0 {
		return Aggregates{}
	}

	agg := Aggregates{FreeShipping: true}
	for _, item := range items {
		agg.CartTotal += item.UnitPrice * item.Count
		if !item.FreeShipping {
			agg.FreeShipping = false
		}
	}

	if !agg.FreeShipping {
		agg.DeliveryCharges = cfg.CartDeliveryCharges
	}
	return agg
}

func applyAggregates(record *models.CartRecord, agg Aggregates) {
	record.CartTotal = agg.CartTotal
	record.FreeShipping = agg.FreeShipping
	record.DeliveryCharges = agg.DeliveryCharges
}

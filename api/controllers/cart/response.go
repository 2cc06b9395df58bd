package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

type cartView struct {
	ID              uuid.UUID      `json:"id"`
	CartTotal       int            `json:"cart_total"`
	FreeShipping    bool           `json:"free_shipping"`
	DeliveryCharges int            `json:"delivery_charges"`
	Items           []cartItemView `json:"items"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type cartItemView struct {
	ItemKey          string                 `json:"item_key"`
	ProductID        uuid.UUID              `json:"product_id"`
	Title            string                 `json:"title"`
	Image            string                 `json:"image,omitempty"`
	UnitPrice        int                    `json:"unit_price"`
	Count            int                    `json:"count"`
	StockAtAdd       int                    `json:"stock_at_add"`
	FreeShipping     bool                   `json:"free_shipping"`
	DeliveryCharges  int                    `json:"delivery_charges"`
	SelectedVariants types.SelectedVariants `json:"selected_variants,omitempty"`
	SelectedTier     *types.TierSnapshot    `json:"selected_tier,omitempty"`
}

func newCartView(record *models.CartRecord) cartView {
	if record == nil {
		return cartView{Items: []cartItemView{}}
	}

	items := make([]cartItemView, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemView{
			ItemKey:          item.ItemKey,
			ProductID:        item.ProductID,
			Title:            item.Title,
			Image:            item.Image,
			UnitPrice:        item.UnitPrice,
			Count:            item.Count,
			StockAtAdd:       item.StockAtAdd,
			FreeShipping:     item.FreeShipping,
			DeliveryCharges:  item.DeliveryCharges,
			SelectedVariants: item.SelectedVariants,
			SelectedTier:     item.SelectedTier,
		})
	}

	return cartView{
		ID:              record.ID,
		CartTotal:       record.CartTotal,
		FreeShipping:    record.FreeShipping,
		DeliveryCharges: record.DeliveryCharges,
		Items:           items,
		UpdatedAt:       record.UpdatedAt,
	}
}

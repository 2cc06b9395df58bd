package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/asimbashir/bazario-backend/internal/cart"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

type addItemRequest struct {
	ProductID        uuid.UUID              `json:"product_id" validate:"required"`
	Count            int                    `json:"count" validate:"omitempty,min=1"`
	SelectedVariants types.SelectedVariants `json:"selected_variants"`
	TierIndex        *int                   `json:"tier_index,omitempty" validate:"omitempty,min=0"`
}

func toAddItemInput(payload addItemRequest) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID:        payload.ProductID,
		Count:            payload.Count,
		SelectedVariants: payload.SelectedVariants,
		TierIndex:        payload.TierIndex,
	}
}

type updateQuantityRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

type syncItemRequest struct {
	ProductID        uuid.UUID              `json:"product_id" validate:"required"`
	Title            string                 `json:"title"`
	Price            int                    `json:"price" validate:"min=0"`
	Count            int                    `json:"count" validate:"required,min=1"`
	Image            string                 `json:"image"`
	SelectedVariants types.SelectedVariants `json:"selected_variants"`
}

type syncRequest struct {
	Items           []syncItemRequest `json:"items" validate:"dive"`
	DeliveryCharges int               `json:"delivery_charges" validate:"min=0"`
}

func toGuestSnapshot(payload syncRequest) cartsvc.GuestCart {
	items := make([]cartsvc.GuestItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, cartsvc.GuestItem{
			ProductID:        item.ProductID,
			Title:            item.Title,
			Price:            item.Price,
			Count:            item.Count,
			Image:            item.Image,
			SelectedVariants: item.SelectedVariants,
		})
	}
	return cartsvc.GuestCart{
		Items:           items,
		DeliveryCharges: payload.DeliveryCharges,
	}
}

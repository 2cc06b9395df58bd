package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// OrderDTO is the order shape returned to storefront clients.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Items           types.OrderItems  `json:"items"`
	TotalPrice      int               `json:"total_price"`
	FreeShipping    bool              `json:"free_shipping"`
	DeliveryCharges int               `json:"delivery_charges"`
	Status          enums.OrderStatus `json:"status"`
	ShippingAddress ShippingDTO       `json:"shipping_address"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ShippingDTO flattens the shipping form columns for display.
type ShippingDTO struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Province      string `json:"province"`
	City          string `json:"city"`
	StreetAddress string `json:"street_address"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
}

// ToDTO maps an order row to its client shape.
func ToDTO(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		Items:           o.Items,
		TotalPrice:      o.TotalPrice,
		FreeShipping:    o.FreeShipping,
		DeliveryCharges: o.DeliveryCharges,
		Status:          o.Status,
		ShippingAddress: ShippingDTO{
			FirstName:     o.FirstName,
			LastName:      o.LastName,
			Province:      o.Province,
			City:          o.City,
			StreetAddress: o.StreetAddress,
			Mobile:        o.Mobile,
			Email:         o.Email,
		},
		CreatedAt: o.CreatedAt,
	}
}

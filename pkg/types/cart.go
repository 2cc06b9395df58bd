package types

// SelectedVariant records the shopper's choice for one variant group.
// Order is preserved: the line item key derives from it.
type SelectedVariant struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type SelectedVariants []SelectedVariant

// TierSnapshot copies the chosen volume tier onto the line item for
// audit/display. It never feeds back into pricing after add time.
type TierSnapshot struct {
	Quantity int     `json:"quantity"`
	Price    int     `json:"price"`
	Image    *string `json:"image,omitempty"`
}

// OrderItem is the per-line snapshot frozen into an order at placement.
type OrderItem struct {
	ProductID        string           `json:"product_id"`
	Title            string           `json:"title"`
	UnitPrice        int              `json:"unit_price"`
	Count            int              `json:"count"`
	Image            string           `json:"image"`
	SelectedVariants SelectedVariants `json:"selected_variants,omitempty"`
}

type OrderItems []OrderItem

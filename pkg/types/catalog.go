package types

// VariantValue is one selectable value of a product variant. Price and Image
// are optional per-value overrides applied by the pricing resolver.
type VariantValue struct {
	Value string  `json:"value"`
	Price *int    `json:"price,omitempty"`
	Image *string `json:"image,omitempty"`
}

// ProductVariant is a named option group (e.g. Color) with its values.
type ProductVariant struct {
	Name   string         `json:"name"`
	Values []VariantValue `json:"values"`
}

type ProductVariants []ProductVariant

// Value returns the variant value entry matching the given value string.
func (v ProductVariant) Value(value string) (VariantValue, bool) {
	for _, entry := range v.Values {
		if entry.Value == value {
			return entry, true
		}
	}
	return VariantValue{}, false
}

// ByName returns the variant group with the given name.
func (vs ProductVariants) ByName(name string) (ProductVariant, bool) {
	for _, variant := range vs {
		if variant.Name == name {
			return variant, true
		}
	}
	return ProductVariant{}, false
}

// VolumeTier is a bundle offer: Quantity units for Price rupees total.
type VolumeTier struct {
	Quantity int     `json:"quantity"`
	Price    int     `json:"price"`
	Image    *string `json:"image,omitempty"`
}

type VolumeTiers []VolumeTier

package cart

import (
	"strings"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/types"
)

// BuildItemKey derives the key that distinguishes one product+variant
// configuration from another. A bare product id keys an unconfigured item;
// each selected value appends a "name:value" segment in selection order, so
// the same choices always collapse onto the same line.
func BuildItemKey(productID uuid.UUID, selected types.SelectedVariants) string {
	var b strings.Builder
	b.WriteString(productID.String())
	for _, variant := range selected {
		for _, value := range variant.Values {
			b.WriteString("|")
			b.WriteString(variant.Name)
			b.WriteString(":")
			b.WriteString(value)
		}
	}
	return b.String()
}

package cart

import (
	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// The two cart shapes crossing the guest/authenticated boundary are modelled
// as explicit tagged variants instead of duck-typed field probing. Normalize
// is the single place both collapse into the canonical shape the checkout
// flow consumes.

// Variant is the closed set of cart shapes Normalize accepts.
type Variant interface {
	isCartVariant()
}

// GuestCart is the minimal client-held snapshot a guest posts before
// checkout. Prices were resolved client-side and are not authoritative.
type GuestCart struct {
	Items           []GuestItem
	DeliveryCharges int
}

func (GuestCart) isCartVariant() {}

// GuestItem mirrors one line of the guest snapshot.
type GuestItem struct {
	ProductID        uuid.UUID
	Title            string
	Price            int
	Count            int
	Image            string
	SelectedVariants types.SelectedVariants
}

// ServerCart wraps the server-held record, which stays authoritative for
// authenticated shoppers.
type ServerCart struct {
	Record *models.CartRecord
}

func (ServerCart) isCartVariant() {}

// CanonicalCart is the one shape the checkout assembler reads.
type CanonicalCart struct {
	Items           []CanonicalItem
	CartTotal       int
	FreeShipping    bool
	DeliveryCharges int
}

// CanonicalItem is the normalized line shape shared by both cart variants.
type CanonicalItem struct {
	ItemKey          string
	ProductID        uuid.UUID
	Title            string
	UnitPrice        int
	Count            int
	Image            string
	FreeShipping     bool
	SelectedVariants types.SelectedVariants
}

// Normalize flattens either cart variant into the canonical shape. The cart
// total is always rederived from the lines, never trusted from the source.
func Normalize(v Variant) CanonicalCart {
	switch c := v.(type) {
	case GuestCart:
		return normalizeGuest(c)
	case ServerCart:
		return normalizeServer(c.Record)
	default:
		return CanonicalCart{Items: []CanonicalItem{}}
	}
}

func normalizeGuest(c GuestCart) CanonicalCart {
	out := CanonicalCart{
		Items:           make([]CanonicalItem, 0, len(c.Items)),
		DeliveryCharges: c.DeliveryCharges,
	}
	for _, line := range c.Items {
		out.Items = append(out.Items, CanonicalItem{
			ItemKey:          BuildItemKey(line.ProductID, line.SelectedVariants),
			ProductID:        line.ProductID,
			Title:            line.Title,
			UnitPrice:        line.Price,
			Count:            line.Count,
			Image:            line.Image,
			SelectedVariants: line.SelectedVariants,
		})
		out.CartTotal += line.Price * line.Count
	}
	if len(out.Items) == 0 {
		out.DeliveryCharges = 0
	}
	return out
}

func normalizeServer(record *models.CartRecord) CanonicalCart {
	if record == nil {
		return CanonicalCart{Items: []CanonicalItem{}}
	}
	out := CanonicalCart{
		Items:           make([]CanonicalItem, 0, len(record.Items)),
		FreeShipping:    record.FreeShipping,
		DeliveryCharges: record.DeliveryCharges,
	}
	for _, item := range record.Items {
		out.Items = append(out.Items, CanonicalItem{
			ItemKey:          item.ItemKey,
			ProductID:        item.ProductID,
			Title:            item.Title,
			UnitPrice:        item.UnitPrice,
			Count:            item.Count,
			Image:            item.Image,
			FreeShipping:     item.FreeShipping,
			SelectedVariants: item.SelectedVariants,
		})
		out.CartTotal += item.UnitPrice * item.Count
	}
	return out
}

package pricing

import (
	"testing"
	"time"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func baseProduct() *models.Product {
	return &models.Product{
		Title: "Clay Teapot",
		Image: "teapot.jpg",
		Price: 1000,
	}
}

func TestResolveTierOverridesEverything(t *testing.T) {
	t.Parallel()

	product := baseProduct()
	product.SalePrice = intPtr(800)
	product.IsDod = true
	product.DodPrice = intPtr(600)
	product.VolumeTierEnabled = true
	product.VolumeTiers = types.VolumeTiers{
		{Quantity: 1, Price: 500},
		{Quantity: 3, Price: 1200, Image: strPtr("bundle.jpg")},
	}
	product.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{{Value: "Red", Price: intPtr(950)}}},
	}

	sel := Selection{
		Variants:  types.SelectedVariants{{Name: "Color", Values: []string{"Red"}}},
		TierIndex: intPtr(1),
	}

	quote := Resolve(product, sel, time.Now())
	if quote.UnitPrice != 1200 {
		t.Fatalf("expected tier price 1200, got %d", quote.UnitPrice)
	}
	if quote.Source != SourceTier {
		t.Fatalf("expected tier source, got %s", quote.Source)
	}
	if quote.Image != "bundle.jpg" {
		t.Fatalf("expected tier image, got %q", quote.Image)
	}
	if quote.Tier == nil || quote.Tier.Quantity != 3 || quote.Tier.Price != 1200 {
		t.Fatalf("expected tier snapshot {3 1200}, got %+v", quote.Tier)
	}
}

func TestResolveTierIndexOutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	product := baseProduct()
	product.VolumeTierEnabled = true
	product.VolumeTiers = types.VolumeTiers{{Quantity: 1, Price: 500}}

	quote := Resolve(product, Selection{TierIndex: intPtr(5)}, time.Now())
	if quote.UnitPrice != 1000 || quote.Source != SourceBase {
		t.Fatalf("expected base fallback, got %d from %s", quote.UnitPrice, quote.Source)
	}
}

func TestResolveVariantPriceSum(t *testing.T) {
	t.Parallel()

	product := baseProduct()
	product.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{
			{Value: "Red", Price: intPtr(700), Image: strPtr("red.jpg")},
			{Value: "Blue", Price: intPtr(650)},
		}},
		{Name: "Size", Values: []types.VariantValue{
			{Value: "Large", Price: intPtr(300)},
		}},
	}

	sel := Selection{Variants: types.SelectedVariants{
		{Name: "Color", Values: []string{"Red"}},
		{Name: "Size", Values: []string{"Large"}},
	}}

	quote := Resolve(product, sel, time.Now())
	if quote.UnitPrice != 1000 {
		t.Fatalf("expected variant sum 1000, got %d", quote.UnitPrice)
	}
	if quote.Source != SourceVariant {
		t.Fatalf("expected variant source, got %s", quote.Source)
	}
	if quote.Image != "red.jpg" {
		t.Fatalf("expected first selected value image, got %q", quote.Image)
	}
}

func TestResolveVariantWithoutPriceFallsThrough(t *testing.T) {
	t.Parallel()

	product := baseProduct()
	product.SalePrice = intPtr(800)
	product.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{{Value: "Red"}}},
	}

	sel := Selection{Variants: types.SelectedVariants{{Name: "Color", Values: []string{"Red"}}}}

	quote := Resolve(product, sel, time.Now())
	if quote.UnitPrice != 800 || quote.Source != SourceSale {
		t.Fatalf("expected sale fallback 800, got %d from %s", quote.UnitPrice, quote.Source)
	}
}

func TestResolveDealOfDayPrecedence(t *testing.T) {
	t.Parallel()

	now := time.Now()
	product := baseProduct()
	product.SalePrice = intPtr(800)
	product.IsDod = true
	product.DodPrice = intPtr(600)
	product.DodEnd = timePtr(now.Add(time.Hour))

	quote := Resolve(product, Selection{}, now)
	if quote.UnitPrice != 600 || quote.Source != SourceDod {
		t.Fatalf("expected active deal price 600, got %d from %s", quote.UnitPrice, quote.Source)
	}

	product.DodEnd = timePtr(now.Add(-time.Hour))
	quote = Resolve(product, Selection{}, now)
	if quote.UnitPrice != 800 || quote.Source != SourceSale {
		t.Fatalf("expected expired deal to fall back to sale 800, got %d from %s", quote.UnitPrice, quote.Source)
	}
}

func TestResolveDealWithoutEndStaysActive(t *testing.T) {
	t.Parallel()

	product := baseProduct()
	product.IsDod = true
	product.DodPrice = intPtr(600)

	quote := Resolve(product, Selection{}, time.Now())
	if quote.UnitPrice != 600 || quote.Source != SourceDod {
		t.Fatalf("expected open-ended deal price 600, got %d from %s", quote.UnitPrice, quote.Source)
	}
}

func TestResolveBasePrice(t *testing.T) {
	t.Parallel()

	quote := Resolve(baseProduct(), Selection{}, time.Now())
	if quote.UnitPrice != 1000 || quote.Source != SourceBase {
		t.Fatalf("expected base price 1000, got %d from %s", quote.UnitPrice, quote.Source)
	}
	if quote.Image != "teapot.jpg" {
		t.Fatalf("expected product image, got %q", quote.Image)
	}
}

func TestDiscountPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		base      int
		effective int
		want      *int
	}{
		{name: "forty percent off", base: 1000, effective: 600, want: intPtr(40)},
		{name: "rounds to nearest", base: 300, effective: 200, want: intPtr(33)},
		{name: "half rounds up", base: 1000, effective: 665, want: intPtr(34)},
		{name: "no saving", base: 1000, effective: 1000, want: nil},
		{name: "negative saving", base: 600, effective: 1000, want: nil},
		{name: "zero base", base: 0, effective: 0, want: nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := DiscountPercent(tc.base, tc.effective)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %d", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("expected %d, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("expected %d, got %d", *tc.want, *got)
			}
		})
	}
}

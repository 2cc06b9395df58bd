package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/internal/pricing"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// Service exposes catalog reads and price quoting.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, int64, error)
	Quote(ctx context.Context, id uuid.UUID, input QuoteInput) (*QuoteDTO, error)
}

// QuoteInput is the shopper's configuration to price.
type QuoteInput struct {
	SelectedVariants types.SelectedVariants
	TierIndex        *int
}

type service struct {
	repo ProductRepository
	now  func() time.Time
}

// NewService builds a product service backed by the provided repository.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// GetProduct loads one active product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

// ListProducts returns a catalog page with server-resolved pricing.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, int64, error) {
	input.Normalize()

	rows, total, err := s.repo.ListActive(ctx, input)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	now := s.now()
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i], now))
	}
	return out, total, nil
}

// Quote resolves the effective unit price for a configuration without
// touching any cart.
func (s *service) Quote(ctx context.Context, id uuid.UUID, input QuoteInput) (*QuoteDTO, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	quote := pricing.Resolve(product, pricing.Selection{
		Variants:  input.SelectedVariants,
		TierIndex: input.TierIndex,
	}, s.now())

	return &QuoteDTO{
		ProductID:       product.ID,
		UnitPrice:       quote.UnitPrice,
		Image:           quote.Image,
		Source:          string(quote.Source),
		DiscountPercent: pricing.DiscountPercent(product.Price, quote.UnitPrice),
		Tier:            quote.Tier,
	}, nil
}

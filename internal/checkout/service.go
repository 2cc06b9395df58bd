package checkout

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/internal/cart"
	"github.com/asimbashir/bazario-backend/internal/orders"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	GetCart(ctx context.Context, owner cart.Owner) (*models.CartRecord, error)
	ClearTx(ctx context.Context, tx *gorm.DB, owner cart.Owner) error
}

// Service assembles validated checkout submissions into placed orders.
type Service interface {
	PlaceOrder(ctx context.Context, owner cart.Owner, form ShippingForm) (*models.Order, error)
}

type service struct {
	orders orders.OrderRepository
	carts  cartStore
	tx     txRunner
}

// NewService builds a checkout service backed by the provided stack.
func NewService(orderRepo orders.OrderRepository, carts cartStore, tx txRunner) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{orders: orderRepo, carts: carts, tx: tx}, nil
}

// PlaceOrder validates the shipping form, freezes the cart into an order and
// clears the cart in the same transaction. A failed placement leaves the cart
// intact for retry.
func (s *service) PlaceOrder(ctx context.Context, owner cart.Owner, form ShippingForm) (*models.Order, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if err := ValidateShippingForm(form); err != nil {
		return nil, err
	}

	record, err := s.carts.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	canonical := cart.Normalize(cart.ServerCart{Record: record})
	if len(canonical.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		OwnerKey:        owner.Key(),
		Items:           assembleItems(canonical.Items),
		TotalPrice:      canonical.CartTotal + canonical.DeliveryCharges,
		FreeShipping:    canonical.FreeShipping,
		DeliveryCharges: canonical.DeliveryCharges,
		Status:          enums.OrderStatusPlaced,
		FirstName:       strings.TrimSpace(form.FirstName),
		LastName:        strings.TrimSpace(form.LastName),
		Province:        strings.TrimSpace(form.Province),
		City:            strings.TrimSpace(form.City),
		StreetAddress:   strings.TrimSpace(form.StreetAddress),
		Mobile:          strings.TrimSpace(form.Mobile),
		Email:           strings.TrimSpace(form.Email),
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.carts.ClearTx(ctx, tx, owner)
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	return order, nil
}

func assembleItems(items []cart.CanonicalItem) types.OrderItems {
	out := make(types.OrderItems, 0, len(items))
	for _, item := range items {
		out = append(out, types.OrderItem{
			ProductID:        item.ProductID.String(),
			Title:            item.Title,
			UnitPrice:        item.UnitPrice,
			Count:            item.Count,
			Image:            item.Image,
			SelectedVariants: item.SelectedVariants,
		})
	}
	return out
}

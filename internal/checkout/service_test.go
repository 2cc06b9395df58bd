package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/internal/cart"
	"github.com/asimbashir/bazario-backend/internal/orders"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
)

func TestPlaceOrderSuccess(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	carts := &stubCartStore{record: &models.CartRecord{
		FreeShipping:    false,
		DeliveryCharges: 200,
		Items: []models.CartItem{
			{ItemKey: productID.String(), ProductID: productID, Title: "Teapot", UnitPrice: 100, Count: 2, Image: "t.jpg"},
			{ItemKey: "k2", ProductID: uuid.New(), Title: "Cup", UnitPrice: 50, Count: 1, FreeShipping: true},
		},
	}}
	orderRepo := &stubOrderRepo{}
	svc := newTestCheckout(t, orderRepo, carts)

	order, err := svc.PlaceOrder(context.Background(), cart.UserOwner(uuid.New()), validForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.TotalPrice != 450 {
		t.Fatalf("expected total 250+200=450, got %d", order.TotalPrice)
	}
	if len(order.Items) != 2 || order.Items[0].Title != "Teapot" {
		t.Fatalf("unexpected assembled items: %+v", order.Items)
	}
	if order.Status != enums.OrderStatusPlaced {
		t.Fatalf("expected placed status, got %s", order.Status)
	}
	if !carts.cleared {
		t.Fatal("expected cart cleared after successful placement")
	}
	if len(orderRepo.created) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(orderRepo.created))
	}
}

func TestPlaceOrderValidationShortCircuits(t *testing.T) {
	t.Parallel()

	carts := &stubCartStore{}
	svc := newTestCheckout(t, &stubOrderRepo{}, carts)

	_, err := svc.PlaceOrder(context.Background(), cart.UserOwner(uuid.New()), ShippingForm{})
	assertValidationMessage(t, err, "First Name is required")
	if carts.getCalls != 0 {
		t.Fatal("cart must not be touched when the form is invalid")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	t.Parallel()

	carts := &stubCartStore{record: &models.CartRecord{}}
	svc := newTestCheckout(t, &stubOrderRepo{}, carts)

	_, err := svc.PlaceOrder(context.Background(), cart.UserOwner(uuid.New()), validForm())
	assertValidationMessage(t, err, "cart is empty")
}

func TestPlaceOrderFailurePreservesCart(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	carts := &stubCartStore{record: &models.CartRecord{
		Items: []models.CartItem{
			{ItemKey: productID.String(), ProductID: productID, Title: "Teapot", UnitPrice: 100, Count: 1},
		},
	}}
	orderRepo := &stubOrderRepo{createErr: errors.New("insert failed")}
	svc := newTestCheckout(t, orderRepo, carts)

	_, err := svc.PlaceOrder(context.Background(), cart.UserOwner(uuid.New()), validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if carts.cleared {
		t.Fatal("cart must be preserved when placement fails")
	}
}

func newTestCheckout(t *testing.T, orderRepo orders.OrderRepository, carts cartStore) Service {
	t.Helper()
	svc, err := NewService(orderRepo, carts, stubTxRunner{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubOrderRepo struct {
	created   []*models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.OrderRepository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrderRepo) ListByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (s *stubOrderRepo) FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerKey string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubCartStore struct {
	record   *models.CartRecord
	getCalls int
	cleared  bool
}

func (s *stubCartStore) GetCart(ctx context.Context, owner cart.Owner) (*models.CartRecord, error) {
	s.getCalls++
	if s.record == nil {
		return &models.CartRecord{}, nil
	}
	return s.record, nil
}

func (s *stubCartStore) ClearTx(ctx context.Context, tx *gorm.DB, owner cart.Owner) error {
	s.cleared = true
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

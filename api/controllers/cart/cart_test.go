package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/api/middleware"
	cartsvc "github.com/asimbashir/bazario-backend/internal/cart"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
)

type stubCartService struct {
	record       *models.CartRecord
	err          error
	lastAddInput cartsvc.AddItemInput
	lastItemKey  string
	lastCount    int
	lastValue    string
	mergedGuest  cartsvc.Owner
	mergedUser   cartsvc.Owner
	cleared      bool
}

func (s *stubCartService) GetCart(ctx context.Context, owner cartsvc.Owner) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, owner cartsvc.Owner, input cartsvc.AddItemInput) (*models.CartRecord, error) {
	s.lastAddInput = input
	return s.record, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, owner cartsvc.Owner, itemKey string, count int) (*models.CartRecord, error) {
	s.lastItemKey = itemKey
	s.lastCount = count
	return s.record, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, owner cartsvc.Owner, itemKey string) (*models.CartRecord, error) {
	s.lastItemKey = itemKey
	return s.record, s.err
}

func (s *stubCartService) RemoveVariantValue(ctx context.Context, owner cartsvc.Owner, productID uuid.UUID, value string) (*models.CartRecord, error) {
	s.lastValue = value
	return s.record, s.err
}

func (s *stubCartService) Clear(ctx context.Context, owner cartsvc.Owner) error {
	s.cleared = true
	return s.err
}

func (s *stubCartService) ClearTx(ctx context.Context, tx *gorm.DB, owner cartsvc.Owner) error {
	return s.err
}

func (s *stubCartService) SyncGuestSnapshot(ctx context.Context, owner cartsvc.Owner, snapshot cartsvc.GuestCart) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) MergeGuestCart(ctx context.Context, guest, user cartsvc.Owner) (*models.CartRecord, error) {
	s.mergedGuest = guest
	s.mergedUser = user
	return s.record, s.err
}

func withOwner(req *http.Request, owner cartsvc.Owner) *http.Request {
	return req.WithContext(middleware.WithOwner(req.Context(), owner))
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartFetchSuccess(t *testing.T) {
	owner := cartsvc.GuestOwner(uuid.New())
	record := &models.CartRecord{
		ID:        uuid.New(),
		OwnerKey:  owner.Key(),
		CartTotal: 450,
		Items: []models.CartItem{
			{ItemKey: "abc", Title: "Kurta", UnitPrice: 450, Count: 1},
		},
	}
	handler := CartFetch(&stubCartService{record: record}, nil)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), owner)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != record.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
	if envelope.Data.CartTotal != 450 || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected cart view: %+v", envelope.Data)
	}
}

func TestCartFetchMissingOwner(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	owner := cartsvc.GuestOwner(uuid.New())
	productID := uuid.New()
	service := &stubCartService{record: &models.CartRecord{ID: uuid.New()}}
	handler := CartAddItem(service, nil)

	body := fmt.Sprintf(`{
		"product_id": "%s",
		"count": 2,
		"selected_variants": [{"name": "Color", "values": ["Red"]}]
	}`, productID)
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), owner)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if service.lastAddInput.ProductID != productID || service.lastAddInput.Count != 2 {
		t.Fatalf("unexpected add input: %+v", service.lastAddInput)
	}
	if len(service.lastAddInput.SelectedVariants) != 1 || service.lastAddInput.SelectedVariants[0].Name != "Color" {
		t.Fatalf("variants not forwarded: %+v", service.lastAddInput.SelectedVariants)
	}
}

func TestCartAddItemOutOfStock(t *testing.T) {
	owner := cartsvc.GuestOwner(uuid.New())
	service := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "product out of stock")}
	handler := CartAddItem(service, nil)

	body := fmt.Sprintf(`{"product_id": "%s"}`, uuid.New())
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), owner)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCartUpdateQuantityDecodesEscapedItemKey(t *testing.T) {
	owner := cartsvc.GuestOwner(uuid.New())
	productID := uuid.New()
	service := &stubCartService{record: &models.CartRecord{}}
	handler := CartUpdateQuantity(service, nil)

	escapedKey := productID.String() + "%7CColor%3ARed"
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+escapedKey, strings.NewReader(`{"count": 3}`))
	req = withOwner(req, owner)
	req = withRouteParam(req, "itemKey", escapedKey)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if want := productID.String() + "|Color:Red"; service.lastItemKey != want {
		t.Fatalf("expected decoded key %q got %q", want, service.lastItemKey)
	}
	if service.lastCount != 3 {
		t.Fatalf("expected count 3 got %d", service.lastCount)
	}
}

func TestCartMergeRequiresGuestCookie(t *testing.T) {
	user := cartsvc.UserOwner(uuid.New())
	handler := CartMerge(&stubCartService{record: &models.CartRecord{}}, nil)

	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil), user)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartMergeForwardsOwners(t *testing.T) {
	user := cartsvc.UserOwner(uuid.New())
	guestID := uuid.New()
	service := &stubCartService{record: &models.CartRecord{}}
	handler := CartMerge(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil)
	req = withOwner(req, user)
	req = req.WithContext(middleware.WithGuestID(req.Context(), guestID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.mergedGuest.ID != guestID {
		t.Fatalf("unexpected guest owner: %+v", service.mergedGuest)
	}
	if service.mergedUser.Key() != user.Key() {
		t.Fatalf("unexpected user owner: %+v", service.mergedUser)
	}
}

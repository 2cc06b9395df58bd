package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

var testCartCfg = config.CartConfig{ItemDeliveryCharges: 250, CartDeliveryCharges: 200}

func TestBuildItemKey(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	if got := BuildItemKey(id, nil); got != id.String() {
		t.Fatalf("expected bare product key, got %q", got)
	}

	selected := types.SelectedVariants{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"Large"}},
	}
	want := id.String() + "|Color:Red|Color:Blue|Size:Large"
	if got := BuildItemKey(id, selected); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAddItemMergesDuplicateKeys(t *testing.T) {
	t.Parallel()

	product := testProduct(100, false)
	svc, _ := newTestService(t, product)
	owner := UserOwner(uuid.New())

	if _, err := svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Count: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	record, err := svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Count: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(record.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(record.Items))
	}
	if record.Items[0].Count != 5 {
		t.Fatalf("expected merged count 5, got %d", record.Items[0].Count)
	}
	if record.CartTotal != 500 {
		t.Fatalf("expected cart total 500, got %d", record.CartTotal)
	}
}

func TestAddItemRequiresVariantSelection(t *testing.T) {
	t.Parallel()

	product := testProduct(100, false)
	product.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{{Value: "Red"}}},
	}
	svc, _ := newTestService(t, product)

	_, err := svc.AddItem(context.Background(), UserOwner(uuid.New()), AddItemInput{ProductID: product.ID, Count: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemStockHandling(t *testing.T) {
	t.Parallel()

	product := testProduct(100, false)
	product.Stock = 3
	svc, _ := newTestService(t, product)
	owner := UserOwner(uuid.New())

	record, err := svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Count: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Items[0].Count != 3 {
		t.Fatalf("expected count capped at stock 3, got %d", record.Items[0].Count)
	}

	product.Stock = 0
	_, err = svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Count: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for out-of-stock, got %v", err)
	}
}

func TestCartAggregatesAcrossOperations(t *testing.T) {
	t.Parallel()

	paid := testProduct(100, false)
	free := testProduct(50, true)
	svc, _ := newTestService(t, paid, free)
	owner := UserOwner(uuid.New())
	ctx := context.Background()

	record, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: paid.ID, Count: 2})
	if err != nil {
		t.Fatalf("add paid: %v", err)
	}
	assertAggregates(t, record, 200, false, 200)

	record, err = svc.AddItem(ctx, owner, AddItemInput{ProductID: free.ID, Count: 1})
	if err != nil {
		t.Fatalf("add free: %v", err)
	}
	assertAggregates(t, record, 250, false, 200)

	record, err = svc.RemoveItem(ctx, owner, BuildItemKey(paid.ID, nil))
	if err != nil {
		t.Fatalf("remove paid: %v", err)
	}
	assertAggregates(t, record, 50, true, 0)

	record, err = svc.UpdateQuantity(ctx, owner, BuildItemKey(free.ID, nil), 4)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	assertAggregates(t, record, 200, true, 0)

	if err := svc.Clear(ctx, owner); err != nil {
		t.Fatalf("clear: %v", err)
	}
	record, err = svc.GetCart(ctx, owner)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if len(record.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(record.Items))
	}
	assertAggregates(t, record, 0, false, 0)
}

func TestStaleItemKeyIsSilentNoOp(t *testing.T) {
	t.Parallel()

	product := testProduct(100, false)
	svc, _ := newTestService(t, product)
	owner := UserOwner(uuid.New())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: product.ID, Count: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	record, err := svc.UpdateQuantity(ctx, owner, "missing-key", 9)
	if err != nil {
		t.Fatalf("update unknown key: %v", err)
	}
	assertAggregates(t, record, 200, false, 200)

	record, err = svc.RemoveItem(ctx, owner, "missing-key")
	if err != nil {
		t.Fatalf("remove unknown key: %v", err)
	}
	if len(record.Items) != 1 || record.Items[0].Count != 2 {
		t.Fatalf("expected cart untouched, got %+v", record.Items)
	}
}

func TestRemoveVariantValue(t *testing.T) {
	t.Parallel()

	product := testProduct(700, false)
	product.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{{Value: "Red"}, {Value: "Blue"}}},
		{Name: "Size", Values: []types.VariantValue{{Value: "Large"}}},
	}
	svc, _ := newTestService(t, product)
	owner := UserOwner(uuid.New())
	ctx := context.Background()

	selected := types.SelectedVariants{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"Large"}},
	}
	record, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: product.ID, Count: 1, SelectedVariants: selected})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	originalKey := record.Items[0].ItemKey
	originalTotal := record.CartTotal

	record, err = svc.RemoveVariantValue(ctx, owner, product.ID, "Red")
	if err != nil {
		t.Fatalf("remove red: %v", err)
	}
	got := record.Items[0].SelectedVariants
	if len(got) != 2 || len(got[0].Values) != 1 || got[0].Values[0] != "Blue" {
		t.Fatalf("expected Color reduced to [Blue], got %+v", got)
	}

	record, err = svc.RemoveVariantValue(ctx, owner, product.ID, "Blue")
	if err != nil {
		t.Fatalf("remove blue: %v", err)
	}
	got = record.Items[0].SelectedVariants
	if len(got) != 1 || got[0].Name != "Size" {
		t.Fatalf("expected empty Color group dropped, got %+v", got)
	}

	if record.Items[0].ItemKey != originalKey {
		t.Fatalf("item key must stay stable, got %q", record.Items[0].ItemKey)
	}
	if record.CartTotal != originalTotal {
		t.Fatalf("cart total must not change, got %d", record.CartTotal)
	}
}

func TestRemoveVariantValueDropsLineWhenLastGroupGoes(t *testing.T) {
	t.Parallel()

	variantProduct := testProduct(700, false)
	variantProduct.Variants = types.ProductVariants{
		{Name: "Color", Values: []types.VariantValue{{Value: "Red"}}},
	}
	plain := testProduct(300, false)
	svc, _ := newTestService(t, variantProduct, plain)
	owner := UserOwner(uuid.New())
	ctx := context.Background()

	selected := types.SelectedVariants{{Name: "Color", Values: []string{"Red"}}}
	if _, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: variantProduct.ID, Count: 1, SelectedVariants: selected}); err != nil {
		t.Fatalf("add variant product: %v", err)
	}
	if _, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: plain.ID, Count: 2}); err != nil {
		t.Fatalf("add plain product: %v", err)
	}

	record, err := svc.RemoveVariantValue(ctx, owner, variantProduct.ID, "Red")
	if err != nil {
		t.Fatalf("remove red: %v", err)
	}

	if len(record.Items) != 1 {
		t.Fatalf("expected the selection-less line dropped, got %d items", len(record.Items))
	}
	if record.Items[0].ProductID != plain.ID {
		t.Fatalf("wrong survivor: %+v", record.Items[0])
	}
	if record.CartTotal != 600 {
		t.Fatalf("expected total recomputed to 600, got %d", record.CartTotal)
	}
}

func TestMergeGuestCart(t *testing.T) {
	t.Parallel()

	shared := testProduct(100, false)
	guestOnly := testProduct(80, false)
	svc, _ := newTestService(t, shared, guestOnly)
	guest := GuestOwner(uuid.New())
	user := UserOwner(uuid.New())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, guest, AddItemInput{ProductID: shared.ID, Count: 2}); err != nil {
		t.Fatalf("guest add shared: %v", err)
	}
	if _, err := svc.AddItem(ctx, guest, AddItemInput{ProductID: guestOnly.ID, Count: 1}); err != nil {
		t.Fatalf("guest add own: %v", err)
	}
	if _, err := svc.AddItem(ctx, user, AddItemInput{ProductID: shared.ID, Count: 1}); err != nil {
		t.Fatalf("user add shared: %v", err)
	}

	record, err := svc.MergeGuestCart(ctx, guest, user)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(record.Items) != 2 {
		t.Fatalf("expected two lines after merge, got %d", len(record.Items))
	}
	byKey := map[string]models.CartItem{}
	for _, item := range record.Items {
		byKey[item.ItemKey] = item
	}
	if byKey[BuildItemKey(shared.ID, nil)].Count != 3 {
		t.Fatalf("expected shared line count 3, got %d", byKey[BuildItemKey(shared.ID, nil)].Count)
	}
	if byKey[BuildItemKey(guestOnly.ID, nil)].Count != 1 {
		t.Fatalf("expected guest-only line carried over")
	}
	assertAggregates(t, record, 380, false, 200)

	guestRecord, err := svc.GetCart(ctx, guest)
	if err != nil {
		t.Fatalf("get guest cart: %v", err)
	}
	if len(guestRecord.Items) != 0 {
		t.Fatalf("expected guest cart emptied, got %d items", len(guestRecord.Items))
	}
}

func TestSyncGuestSnapshotIsGuestOnly(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.SyncGuestSnapshot(context.Background(), UserOwner(uuid.New()), GuestCart{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeVariants(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	guest := GuestCart{
		Items: []GuestItem{
			{ProductID: productID, Title: "Teapot", Price: 100, Count: 2, Image: "a.jpg"},
		},
		DeliveryCharges: 200,
	}
	canon := Normalize(guest)
	if canon.CartTotal != 200 || canon.DeliveryCharges != 200 {
		t.Fatalf("unexpected guest normalization: %+v", canon)
	}
	if canon.Items[0].ItemKey != productID.String() {
		t.Fatalf("expected derived item key, got %q", canon.Items[0].ItemKey)
	}

	server := ServerCart{Record: &models.CartRecord{
		FreeShipping:    true,
		DeliveryCharges: 0,
		CartTotal:       999, // stale on purpose; normalize rederives
		Items: []models.CartItem{
			{ItemKey: "k", ProductID: productID, Title: "Teapot", UnitPrice: 50, Count: 1, FreeShipping: true},
		},
	}}
	canon = Normalize(server)
	if canon.CartTotal != 50 {
		t.Fatalf("expected rederived total 50, got %d", canon.CartTotal)
	}
	if !canon.FreeShipping || canon.DeliveryCharges != 0 {
		t.Fatalf("unexpected server normalization: %+v", canon)
	}
}

func assertAggregates(t *testing.T, record *models.CartRecord, total int, free bool, delivery int) {
	t.Helper()
	sum := 0
	for _, item := range record.Items {
		sum += item.UnitPrice * item.Count
	}
	if sum != record.CartTotal {
		t.Fatalf("cart total %d inconsistent with item sum %d", record.CartTotal, sum)
	}
	if record.CartTotal != total {
		t.Fatalf("expected cart total %d, got %d", total, record.CartTotal)
	}
	if record.FreeShipping != free {
		t.Fatalf("expected free shipping %v, got %v", free, record.FreeShipping)
	}
	if record.DeliveryCharges != delivery {
		t.Fatalf("expected delivery charges %d, got %d", delivery, record.DeliveryCharges)
	}
}

func newTestService(t *testing.T, products ...*models.Product) (Service, *memCartRepo) {
	t.Helper()
	repo := &memCartRepo{byOwner: map[string]*models.CartRecord{}}
	loader := mapProductLoader{}
	for _, p := range products {
		loader[p.ID] = p
	}
	svc, err := NewService(repo, stubTxRunner{}, loader, testCartCfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}

func testProduct(price int, freeShipping bool) *models.Product {
	return &models.Product{
		ID:           uuid.New(),
		Title:        "Product",
		Image:        "product.jpg",
		Price:        price,
		Stock:        100,
		FreeShipping: freeShipping,
		IsActive:     true,
	}
}

type memCartRepo struct {
	byOwner map[string]*models.CartRecord
}

func (m *memCartRepo) WithTx(tx *gorm.DB) CartRepository { return m }

func (m *memCartRepo) FindByOwner(ctx context.Context, ownerKey string) (*models.CartRecord, error) {
	record, ok := m.byOwner[ownerKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *memCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	m.byOwner[record.OwnerKey] = record
	return record, nil
}

func (m *memCartRepo) Update(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	m.byOwner[record.OwnerKey] = record
	return record, nil
}

func (m *memCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	for _, record := range m.byOwner {
		if record.ID == cartID {
			record.Items = items
		}
	}
	return nil
}

func (m *memCartRepo) DeleteByOwner(ctx context.Context, ownerKey string) error {
	delete(m.byOwner, ownerKey)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type mapProductLoader map[uuid.UUID]*models.Product

func (m mapProductLoader) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

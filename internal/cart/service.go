package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/internal/pricing"
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart mutations and reads the storefront relies on.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (*models.CartRecord, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.CartRecord, error)
	UpdateQuantity(ctx context.Context, owner Owner, itemKey string, count int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, owner Owner, itemKey string) (*models.CartRecord, error)
	RemoveVariantValue(ctx context.Context, owner Owner, productID uuid.UUID, value string) (*models.CartRecord, error)
	Clear(ctx context.Context, owner Owner) error
	ClearTx(ctx context.Context, tx *gorm.DB, owner Owner) error
	SyncGuestSnapshot(ctx context.Context, owner Owner, snapshot GuestCart) (*models.CartRecord, error)
	MergeGuestCart(ctx context.Context, guest, user Owner) (*models.CartRecord, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
	cfg      config.CartConfig
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, cfg config.CartConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		cfg:      cfg,
	}, nil
}

// AddItemInput captures the shopper's configuration when adding a product.
type AddItemInput struct {
	ProductID        uuid.UUID
	Count            int
	SelectedVariants types.SelectedVariants
	TierIndex        *int
}

// GetCart returns the owner's cart, or an empty record when none exists yet.
func (s *service) GetCart(ctx context.Context, owner Owner) (*models.CartRecord, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	record, err := s.repo.FindByOwner(ctx, owner.Key())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyRecord(owner), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

// AddItem resolves the product price for the given configuration and folds it
// into the cart. A line with the same item key absorbs the count instead of
// appending a duplicate.
func (s *service) AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.CartRecord, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Count < 1 {
		input.Count = 1
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if len(product.Variants) > 0 && len(input.SelectedVariants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one variant")
	}
	if product.VolumeTierEnabled && len(product.VolumeTiers) > 0 && input.TierIndex == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a volume tier")
	}
	if product.Stock < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product out of stock")
	}
	if input.Count > product.Stock {
		input.Count = product.Stock
	}

	quote := pricing.Resolve(product, pricing.Selection{
		Variants:  input.SelectedVariants,
		TierIndex: input.TierIndex,
	}, time.Now())

	itemKey := BuildItemKey(product.ID, input.SelectedVariants)

	delivery := s.cfg.ItemDeliveryCharges
	if product.FreeShipping {
		delivery = 0
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := s.findOrCreate(ctx, txRepo, owner)
		if err != nil {
			return err
		}

		merged := false
		for i := range record.Items {
			if record.Items[i].ItemKey != itemKey {
				continue
			}
			record.Items[i].Count += input.Count
			if record.Items[i].Count > record.Items[i].StockAtAdd {
				record.Items[i].Count = record.Items[i].StockAtAdd
			}
			merged = true
			break
		}

		if !merged {
			record.Items = append(record.Items, models.CartItem{
				ItemKey:          itemKey,
				ProductID:        product.ID,
				Title:            product.Title,
				Image:            quote.Image,
				UnitPrice:        quote.UnitPrice,
				Count:            input.Count,
				StockAtAdd:       product.Stock,
				FreeShipping:     product.FreeShipping,
				DeliveryCharges:  delivery,
				SelectedVariants: input.SelectedVariants,
				SelectedTier:     quote.Tier,
				Position:         nextPosition(record.Items),
			})
		}

		saved, err = s.persist(ctx, txRepo, record)
		return err
	}); err != nil {
		return nil, asCartError(err, "persist cart")
	}

	return saved, nil
}

// UpdateQuantity sets the count on the matching line. A stale item key is a
// silent no-op; quantity bounds are the caller's responsibility.
func (s *service) UpdateQuantity(ctx context.Context, owner Owner, itemKey string, count int) (*models.CartRecord, error) {
	return s.mutateItems(ctx, owner, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].ItemKey == itemKey {
				items[i].Count = count
				break
			}
		}
		return items
	})
}

// RemoveItem deletes the matching line. A stale item key is a silent no-op.
func (s *service) RemoveItem(ctx context.Context, owner Owner, itemKey string) (*models.CartRecord, error) {
	return s.mutateItems(ctx, owner, func(items []models.CartItem) []models.CartItem {
		kept := items[:0]
		for _, item := range items {
			if item.ItemKey != itemKey {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// RemoveVariantValue strips one chosen value from every line of the product,
// dropping a variant group once its last value is gone. A line whose last
// group goes is removed outright: a variant product must not sit in the cart
// with no selection. Item keys and prices of surviving lines are untouched.
func (s *service) RemoveVariantValue(ctx context.Context, owner Owner, productID uuid.UUID, value string) (*models.CartRecord, error) {
	return s.mutateItems(ctx, owner, func(items []models.CartItem) []models.CartItem {
		kept := items[:0]
		for _, item := range items {
			if item.ProductID == productID && len(item.SelectedVariants) > 0 {
				item.SelectedVariants = stripVariantValue(item.SelectedVariants, value)
				if len(item.SelectedVariants) == 0 {
					continue
				}
			}
			kept = append(kept, item)
		}
		return kept
	})
}

// Clear drops the owner's cart entirely.
func (s *service) Clear(ctx context.Context, owner Owner) error {
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if err := s.repo.DeleteByOwner(ctx, owner.Key()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// ClearTx drops the owner's cart inside an existing transaction. Order
// placement uses it so the cart only clears when the order commits.
func (s *service) ClearTx(ctx context.Context, tx *gorm.DB, owner Owner) error {
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	return s.repo.WithTx(tx).DeleteByOwner(ctx, owner.Key())
}

// SyncGuestSnapshot replaces a guest's server-held cart with the client
// snapshot. The snapshot's client-resolved prices are stored as-is; the guest
// cart is a draft, not an authoritative record.
func (s *service) SyncGuestSnapshot(ctx context.Context, owner Owner, snapshot GuestCart) (*models.CartRecord, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if owner.Kind != enums.CartOwnerGuest {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot sync is guest-only")
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := s.findOrCreate(ctx, txRepo, owner)
		if err != nil {
			return err
		}

		items := make([]models.CartItem, 0, len(snapshot.Items))
		total := 0
		for i, line := range snapshot.Items {
			total += line.Price * line.Count
			items = append(items, models.CartItem{
				ItemKey:          BuildItemKey(line.ProductID, line.SelectedVariants),
				ProductID:        line.ProductID,
				Title:            line.Title,
				Image:            line.Image,
				UnitPrice:        line.Price,
				Count:            line.Count,
				StockAtAdd:       line.Count,
				SelectedVariants: line.SelectedVariants,
				Position:         i,
			})
		}

		record.Items = items
		record.CartTotal = total
		record.FreeShipping = false
		record.DeliveryCharges = snapshot.DeliveryCharges
		if len(items) == 0 {
			record.DeliveryCharges = 0
		}

		if err := txRepo.ReplaceItems(ctx, record.ID, record.Items); err != nil {
			return err
		}
		if _, err := txRepo.Update(ctx, record); err != nil {
			return err
		}
		saved, err = txRepo.FindByOwner(ctx, owner.Key())
		return err
	}); err != nil {
		return nil, asCartError(err, "sync guest cart")
	}

	return saved, nil
}

// MergeGuestCart folds a guest's server cart into the user's cart. Matching
// item keys absorb the guest count; everything else appends. The guest record
// is deleted in the same transaction.
func (s *service) MergeGuestCart(ctx context.Context, guest, user Owner) (*models.CartRecord, error) {
	if !guest.Valid() || !user.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest and user owners are required")
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		guestRecord, err := txRepo.FindByOwner(ctx, guest.Key())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				saved, err = s.findOrCreate(ctx, txRepo, user)
				return err
			}
			return err
		}

		userRecord, err := s.findOrCreate(ctx, txRepo, user)
		if err != nil {
			return err
		}

		for _, guestItem := range guestRecord.Items {
			merged := false
			for i := range userRecord.Items {
				if userRecord.Items[i].ItemKey != guestItem.ItemKey {
					continue
				}
				userRecord.Items[i].Count += guestItem.Count
				if userRecord.Items[i].Count > userRecord.Items[i].StockAtAdd {
					userRecord.Items[i].Count = userRecord.Items[i].StockAtAdd
				}
				merged = true
				break
			}
			if merged {
				continue
			}
			item := guestItem
			item.ID = uuid.Nil
			item.CartID = userRecord.ID
			item.Position = nextPosition(userRecord.Items)
			userRecord.Items = append(userRecord.Items, item)
		}

		if err := txRepo.DeleteByOwner(ctx, guest.Key()); err != nil {
			return err
		}

		saved, err = s.persist(ctx, txRepo, userRecord)
		return err
	}); err != nil {
		return nil, asCartError(err, "merge guest cart")
	}

	return saved, nil
}

// mutateItems runs one item-set transformation inside a transaction and
// recomputes the aggregates afterwards. A missing cart is a silent no-op that
// returns the empty cart shape.
func (s *service) mutateItems(ctx context.Context, owner Owner, mutate func([]models.CartItem) []models.CartItem) (*models.CartRecord, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := txRepo.FindByOwner(ctx, owner.Key())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				saved = emptyRecord(owner)
				return nil
			}
			return err
		}

		record.Items = mutate(record.Items)
		saved, err = s.persist(ctx, txRepo, record)
		return err
	}); err != nil {
		return nil, asCartError(err, "update cart")
	}

	return saved, nil
}

func (s *service) persist(ctx context.Context, repo CartRepository, record *models.CartRecord) (*models.CartRecord, error) {
	applyAggregates(record, recomputeAggregates(record.Items, s.cfg))

	if err := repo.ReplaceItems(ctx, record.ID, record.Items); err != nil {
		return nil, err
	}
	if _, err := repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return repo.FindByOwner(ctx, record.OwnerKey)
}

func (s *service) findOrCreate(ctx context.Context, repo CartRepository, owner Owner) (*models.CartRecord, error) {
	record, err := repo.FindByOwner(ctx, owner.Key())
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.CartRecord{
		OwnerKey:  owner.Key(),
		OwnerKind: owner.Kind,
	})
}

// stripVariantValue removes the value from every group's value list and drops
// groups left empty. Groups for other values pass through untouched.
func stripVariantValue(selected types.SelectedVariants, value string) types.SelectedVariants {
	result := make(types.SelectedVariants, 0, len(selected))
	for _, group := range selected {
		values := make([]string, 0, len(group.Values))
		for _, v := range group.Values {
			if v != value {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		result = append(result, types.SelectedVariant{Name: group.Name, Values: values})
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func nextPosition(items []models.CartItem) int {
	next := 0
	for _, item := range items {
		if item.Position >= next {
			next = item.Position + 1
		}
	}
	return next
}

func emptyRecord(owner Owner) *models.CartRecord {
	return &models.CartRecord{
		OwnerKey:  owner.Key(),
		OwnerKind: owner.Kind,
		Items:     []models.CartItem{},
	}
}

// asCartError keeps typed validation/conflict errors intact and wraps the rest
// as dependency failures.
func asCartError(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

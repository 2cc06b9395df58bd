package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cartRecords := `
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  owner_key TEXT NOT NULL UNIQUE,
  owner_kind TEXT NOT NULL,
  cart_total INTEGER NOT NULL DEFAULT 0,
  free_shipping INTEGER NOT NULL DEFAULT 0,
  delivery_charges INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  item_key TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  image TEXT,
  unit_price INTEGER NOT NULL,
  count INTEGER NOT NULL,
  stock_at_add INTEGER NOT NULL DEFAULT 0,
  free_shipping INTEGER NOT NULL DEFAULT 0,
  delivery_charges INTEGER NOT NULL DEFAULT 0,
  selected_variants TEXT,
  selected_tier TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(cartRecords).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func TestRepositoryRoundTrip(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := GuestOwner(uuid.New())
	record := &models.CartRecord{
		ID:        uuid.New(),
		OwnerKey:  owner.Key(),
		OwnerKind: enums.CartOwnerGuest,
	}
	_, err := repo.Create(ctx, record)
	require.NoError(t, err)

	items := []models.CartItem{
		{
			ID:        uuid.New(),
			ItemKey:   "b",
			ProductID: uuid.New(),
			Title:     "Second",
			UnitPrice: 50,
			Count:     1,
			Position:  1,
		},
		{
			ID:        uuid.New(),
			ItemKey:   "a",
			ProductID: uuid.New(),
			Title:     "First",
			UnitPrice: 100,
			Count:     2,
			Position:  0,
			SelectedVariants: types.SelectedVariants{
				{Name: "Color", Values: []string{"Red"}},
			},
		},
	}
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, items))

	loaded, err := repo.FindByOwner(ctx, owner.Key())
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "a", loaded.Items[0].ItemKey, "items must come back in position order")
	assert.Equal(t, "b", loaded.Items[1].ItemKey)
	require.Len(t, loaded.Items[0].SelectedVariants, 1)
	assert.Equal(t, []string{"Red"}, loaded.Items[0].SelectedVariants[0].Values)

	loaded.CartTotal = 250
	loaded.DeliveryCharges = 200
	_, err = repo.Update(ctx, loaded)
	require.NoError(t, err)

	again, err := repo.FindByOwner(ctx, owner.Key())
	require.NoError(t, err)
	assert.Equal(t, 250, again.CartTotal)
	assert.Equal(t, 200, again.DeliveryCharges)
}

func TestRepositoryReplaceItemsEmptiesCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := UserOwner(uuid.New())
	record := &models.CartRecord{ID: uuid.New(), OwnerKey: owner.Key(), OwnerKind: enums.CartOwnerUser}
	_, err := repo.Create(ctx, record)
	require.NoError(t, err)

	items := []models.CartItem{{ID: uuid.New(), ItemKey: "x", ProductID: uuid.New(), Title: "T", UnitPrice: 10, Count: 1}}
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, items))
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, nil))

	loaded, err := repo.FindByOwner(ctx, owner.Key())
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestRepositoryDeleteByOwner(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := UserOwner(uuid.New())
	record := &models.CartRecord{ID: uuid.New(), OwnerKey: owner.Key(), OwnerKind: enums.CartOwnerUser}
	_, err := repo.Create(ctx, record)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, []models.CartItem{
		{ID: uuid.New(), ItemKey: "x", ProductID: uuid.New(), Title: "T", UnitPrice: 10, Count: 1},
	}))

	require.NoError(t, repo.DeleteByOwner(ctx, owner.Key()))

	_, err = repo.FindByOwner(ctx, owner.Key())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// deleting a missing cart is a no-op
	require.NoError(t, repo.DeleteByOwner(ctx, owner.Key()))
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
)

// OrderRepository defines the persistence surface for placed orders.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]models.Order, int64, error)
	FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerKey string) (*models.Order, error)
}

// Repository exposes persistence operations for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ListByOwner returns the owner's orders, newest first, plus the total count.
func (r *Repository) ListByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("owner_key = ?", ownerKey)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindByIDAndOwner returns an order restricted to its owner.
func (r *Repository) FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerKey string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_key = ?", id, ownerKey).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
)

// Service exposes order history reads for a cart owner.
type Service interface {
	ListOrders(ctx context.Context, ownerKey string, limit, offset int) ([]OrderDTO, int64, error)
	GetOrder(ctx context.Context, id uuid.UUID, ownerKey string) (*OrderDTO, error)
}

type service struct {
	repo OrderRepository
}

// NewService builds an orders service backed by the provided repository.
func NewService(repo OrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// ListOrders returns the owner's order history, newest first.
func (s *service) ListOrders(ctx context.Context, ownerKey string, limit, offset int) ([]OrderDTO, int64, error) {
	if ownerKey == "" {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.repo.ListByOwner(ctx, ownerKey, limit, offset)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out, total, nil
}

// GetOrder returns one order restricted to its owner.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID, ownerKey string) (*OrderDTO, error) {
	if id == uuid.Nil || ownerKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and owner are required")
	}

	order, err := s.repo.FindByIDAndOwner(ctx, id, ownerKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	dto := ToDTO(order)
	return &dto, nil
}

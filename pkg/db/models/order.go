package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/enums"
	"github.com/asimbashir/bazario-backend/pkg/types"
)

// Order freezes the normalized cart plus the shipping form at placement time.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerKey        string            `gorm:"column:owner_key;not null;index"`
	Items           types.OrderItems  `gorm:"column:items;type:jsonb;serializer:json"`
	TotalPrice      int               `gorm:"column:total_price;not null"`
	FreeShipping    bool              `gorm:"column:free_shipping;not null;default:false"`
	DeliveryCharges int               `gorm:"column:delivery_charges;not null;default:0"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`
	FirstName       string            `gorm:"column:first_name;not null"`
	LastName        string            `gorm:"column:last_name;not null"`
	Province        string            `gorm:"column:province;not null"`
	City            string            `gorm:"column:city;not null"`
	StreetAddress   string            `gorm:"column:street_address;not null"`
	Mobile          string            `gorm:"column:mobile;not null"`
	Email           string            `gorm:"column:email;not null"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Status     string       `gorm:"not null;default:'placed';column:status;index" json:"status"`
	TotalCents int64        `gorm:"not null;column:total_cents" json:"total_cents"`
	Items      []*OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "order"
}

type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index:idx_order_item,unique,priority:1" json:"order_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index:idx_order_item,unique,priority:2" json:"product_id"`
	Product        *Product  `gorm:"constraint:OnDelete:SET NULL;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Quantity       int       `gorm:"not null;column:quantity" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null;column:unit_price_cents" json:"unit_price_cents"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_item"
}

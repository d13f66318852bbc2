package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArtisanID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"artisan_id"`
	Artisan     *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArtisanID;references:ID" json:"artisan,omitempty"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	Category    string         `gorm:"column:category;index" json:"category,omitempty"`
	PriceCents  int64          `gorm:"not null;column:price_cents" json:"price_cents"`
	Stock       int            `gorm:"not null;default:0;column:stock" json:"stock"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url,omitempty"`
	Attributes  datatypes.JSON `gorm:"column:attributes" json:"attributes,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string {
	return "product"
}

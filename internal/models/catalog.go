// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
)

// Shop is a seller-owned storefront. UserID is nullable because shops can be
// created by price-list import before a seller account claims them.
type Shop struct {
	BaseModel
	Name   string     `json:"name" gorm:"uniqueIndex;size:80;not null"`
	UserID *uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	State  bool       `json:"state" gorm:"default:true"`

	User     *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Listings []ProductInfo `json:"listings,omitempty" gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
}

type Category struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name       string    `json:"name" gorm:"size:150;not null;index"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`

	Category Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Infos    []ProductInfo `json:"infos,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductInfo is a per-shop listing of a product: its price and available
// quantity at that shop. One listing per (product, shop).
type ProductInfo struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_product_shop"`
	ShopID     uuid.UUID `json:"shop_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_product_shop"`
	ExternalID *int64    `json:"external_id,omitempty"`
	Model      string    `json:"model" gorm:"size:80"`
	Price      float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity   int       `json:"quantity" gorm:"not null;default:0"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Shop    Shop    `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
}

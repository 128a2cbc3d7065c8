// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// Cart holds a user's pending purchases. Exactly one per user; it is created
// lazily on first access and survives order placement (only its items go).
type Cart struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	User  User       `json:"-" gorm:"foreignKey:UserID"`
	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	BaseModel
	CartID        uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_listing"`
	ProductInfoID uuid.UUID `json:"product_info_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_listing"`
	Quantity      int       `json:"quantity" gorm:"not null;check:quantity > 0"`

	ProductInfo ProductInfo `json:"product_info,omitempty" gorm:"foreignKey:ProductInfoID"`
}

// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type CartItemRequest struct {
	ProductInfoID uuid.UUID `json:"product_info_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
}

type AddCartItemsRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.getOrCreateCart(s.db, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		First(cart, "id = ?", cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return cart, nil
}

// AddItems merges the requested positions into the cart. Adding a listing
// already in the cart increases its quantity instead of duplicating the row.
func (s *CartService) AddItems(userID uuid.UUID, req *AddCartItemsRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		for _, item := range req.Items {
			var listing models.ProductInfo
			if err := tx.
				Joins("JOIN shops ON shops.id = product_infos.shop_id").
				Where("product_infos.id = ? AND shops.state = ?", item.ProductInfoID, true).
				First(&listing).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("listing %s: %w", item.ProductInfoID, ErrNotFound)
				}
				return fmt.Errorf("database error: %w", err)
			}

			if listing.Quantity < item.Quantity {
				return fmt.Errorf("listing %s has %d in stock: %w",
					item.ProductInfoID, listing.Quantity, ErrInsufficientStock)
			}

			cartItem := models.CartItem{
				CartID:        cart.ID,
				ProductInfoID: item.ProductInfoID,
				Quantity:      item.Quantity,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_info_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity": gorm.Expr("cart_items.quantity + ?", item.Quantity),
				}),
			}).Create(&cartItem).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

// UpdateItem sets the quantity of a position already in the cart.
func (s *CartService) UpdateItem(userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	var listing models.ProductInfo
	if err := s.db.First(&listing, "id = ?", item.ProductInfoID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if listing.Quantity < req.Quantity {
		return nil, fmt.Errorf("listing %s has %d in stock: %w",
			item.ProductInfoID, listing.Quantity, ErrInsufficientStock)
	}

	if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetCart(userID)
}

// RemoveItem deletes one position from the cart. Items of other users' carts
// are reported as not found.
func (s *CartService) RemoveItem(userID, itemID uuid.UUID) (*models.Cart, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetCart(userID)
}

// ClearCart removes every position from the user's cart.
func (s *CartService) ClearCart(userID uuid.UUID) error {
	cart, err := s.getOrCreateCart(s.db, userID)
	if err != nil {
		return err
	}
	return s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

func (s *CartService) getOrCreateCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: userID}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) findOwnedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/tasks"
	"github.com/procurex/orders-backend/internal/utils"
)

type OrderService struct {
	db            *gorm.DB
	queue         *tasks.Queue
	notifications *NotificationService
}

// PlaceOrderRequest carries the delivery address for a new order. The cart
// itself is the source of the positions.
type PlaceOrderRequest struct {
	Contact ContactRequest `json:"contact" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB, queue *tasks.Queue, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		queue:         queue,
		notifications: notifications,
	}
}

// PlaceOrder converts the user's cart into an order in one transaction:
// stock is decremented per position, the total is fixed from current prices,
// a contact row is written for the delivery address, and the cart is emptied.
// Any failure rolls the whole thing back.
func (s *OrderService) PlaceOrder(userID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := utils.ValidateStruct(&req.Contact); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return fmt.Errorf("database error: %w", err)
		}

		var items []models.CartItem
		if err := tx.
			Preload("ProductInfo").
			Preload("ProductInfo.Shop").
			Where("cart_id = ?", cart.ID).
			Order("created_at ASC").
			Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		for _, item := range items {
			if !item.ProductInfo.Shop.State {
				return fmt.Errorf("shop %q is not accepting orders: %w",
					item.ProductInfo.Shop.Name, ErrConflict)
			}

			// Conditional decrement closes the race between concurrent
			// orders for the same listing.
			res := tx.Model(&models.ProductInfo{}).
				Where("id = ? AND quantity >= ?", item.ProductInfoID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("listing %s: %w", item.ProductInfoID, ErrInsufficientStock)
			}

			total += item.ProductInfo.Price * float64(item.Quantity)
		}
		total = math.Round(total*100) / 100

		contact := models.Contact{
			UserID:    userID,
			City:      req.Contact.City,
			Street:    req.Contact.Street,
			House:     req.Contact.House,
			Structure: req.Contact.Structure,
			Building:  req.Contact.Building,
			Apartment: req.Contact.Apartment,
			Phone:     req.Contact.Phone,
		}
		if err := tx.Create(&contact).Error; err != nil {
			return fmt.Errorf("failed to save delivery contact: %w", err)
		}

		order = &models.Order{
			UserID:      userID,
			TotalAmount: total,
			ContactID:   &contact.ID,
			Status:      models.OrderStatusNew,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:       order.ID,
				ProductInfoID: item.ProductInfoID,
				Quantity:      item.Quantity,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to empty cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	orderID := order.ID
	s.queue.Enqueue("order_confirmation_email", func() error {
		return s.notifications.SendOrderConfirmationEmail(orderID)
	})
	s.queue.Enqueue("admin_invoice_email", func() error {
		return s.notifications.SendAdminInvoiceEmail(orderID)
	})

	return s.GetOrder(userID, order.ID)
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(userID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count orders: %w", err)
	}

	sortColumns := map[string]string{
		"created_at":   "created_at",
		"total_amount": "total_amount",
		"status":       "status",
	}
	query = utils.ApplySort(query, params, sortColumns)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		Preload("Contact").
		Find(&orders).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return utils.CreatePaginationResult(orders, total, params), nil
}

// GetOrder loads one of the user's orders with its positions and address.
func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		Preload("Contact").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// SetStatus advances one of the user's orders along the fulfilment pipeline.
// Orders belonging to other users are invisible. Steps outside the pipeline,
// and any change to a delivered or canceled order, are refused. Cancellation
// restores the reserved stock.
func (s *OrderService) SetStatus(userID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	return s.setStatus(&userID, orderID, next)
}

// SetStatusAny is the back-office variant: any order, same transition rules.
func (s *OrderService) SetStatusAny(orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	return s.setStatus(nil, orderID, next)
}

func (s *OrderService) setStatus(owner *uuid.UUID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return nil, fmt.Errorf("unknown status %q: %w", next, ErrInvalidTransition)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Preload("Items")
		if owner != nil {
			query = query.Where("user_id = ?", *owner)
		}
		if err := query.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("cannot change status from %q to %q: %w",
				order.Status, next, ErrInvalidTransition)
		}

		if next == models.OrderStatusCanceled {
			for _, item := range order.Items {
				if err := tx.Model(&models.ProductInfo{}).
					Where("id = ?", item.ProductInfoID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
					return fmt.Errorf("failed to restore stock: %w", err)
				}
			}
		}

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := next
	s.queue.Enqueue("order_status_email", func() error {
		return s.notifications.SendOrderStatusEmail(orderID, status)
	})

	return &order, nil
}

// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// orderTransitions encodes the fulfilment pipeline: statuses advance one step
// at a time, cancellation is reachable from any non-terminal status, and the
// two terminal statuses accept nothing further.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusAssembled, OrderStatusCanceled},
	OrderStatusAssembled: {OrderStatusSent, OrderStatusCanceled},
	OrderStatusSent:      {OrderStatusDelivered, OrderStatusCanceled},
	OrderStatusDelivered: {},
	OrderStatusCanceled:  {},
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a purchase intent: the total is fixed at
// creation and only the status may change afterwards.
type Order struct {
	BaseModel
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	ContactID   *uuid.UUID  `json:"contact_id" gorm:"type:uuid"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(10);default:'new';index"`

	User    User        `json:"-" gorm:"foreignKey:UserID"`
	Contact *Contact    `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
	Items   []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem keeps a live reference to the listing; later price changes do not
// rewrite the order's total.
type OrderItem struct {
	BaseModel
	OrderID       uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductInfoID uuid.UUID `json:"product_info_id" gorm:"type:uuid;not null;index"`
	Quantity      int       `json:"quantity" gorm:"not null"`

	ProductInfo ProductInfo `json:"product_info,omitempty" gorm:"foreignKey:ProductInfoID"`
}

// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	carts  *CartService
	orders *OrderService
	user   *models.User
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig(suite.T())
	queue := newTestQueue()
	notifications := NewNotificationService(suite.db, cfg)

	suite.carts = NewCartService(suite.db)
	suite.orders = NewOrderService(suite.db, queue, notifications)
	suite.user = createTestUser(suite.T(), suite.db, "buyer@example.com", models.UserRoleBuyer)
}

func (suite *OrderServiceTestSuite) placeOrderRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Contact: ContactRequest{
			City:   "Moscow",
			Street: "Tverskaya",
			House:  "1",
			Phone:  "+7 900 000-00-00",
		},
	}
}

func (suite *OrderServiceTestSuite) TestPlaceOrder() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 99.90, 10)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 3}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)

	suite.Equal(models.OrderStatusNew, order.Status)
	suite.InDelta(299.70, order.TotalAmount, 0.001)
	suite.Require().Len(order.Items, 1)
	suite.Equal(3, order.Items[0].Quantity)

	// Stock is reserved at placement
	suite.Equal(7, listingQuantity(suite.T(), suite.db, listing.ID))

	// The delivery address was persisted as a contact row
	suite.Require().NotNil(order.ContactID)
	suite.Require().NotNil(order.Contact)
	suite.Equal("Moscow", order.Contact.City)

	// The cart was emptied
	cart, err := suite.carts.GetCart(suite.user.ID)
	suite.Require().NoError(err)
	suite.Empty(cart.Items)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderEmptyCart() {
	_, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.ErrorIs(err, ErrEmptyCart)

	// A drained cart counts as empty too
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err = suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.carts.ClearCart(suite.user.ID))

	_, err = suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.ErrorIs(err, ErrEmptyCart)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInsufficientStockRollsBack() {
	cheap := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 10)
	scarce := createTestListing(suite.T(), suite.db, "shop-a", "gadget", 20, 2)

	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{
			{ProductInfoID: cheap.ID, Quantity: 5},
			{ProductInfoID: scarce.ID, Quantity: 2},
		},
	})
	suite.Require().NoError(err)

	// Somebody else takes the scarce stock between add and checkout
	suite.Require().NoError(suite.db.Model(&models.ProductInfo{}).
		Where("id = ?", scarce.ID).
		Update("quantity", 1).Error)

	_, err = suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.ErrorIs(err, ErrInsufficientStock)

	// Nothing happened: stock untouched, no order, cart intact
	suite.Equal(10, listingQuantity(suite.T(), suite.db, cheap.ID))
	suite.Equal(1, listingQuantity(suite.T(), suite.db, scarce.ID))

	var orderCount int64
	suite.db.Model(&models.Order{}).Count(&orderCount)
	suite.EqualValues(0, orderCount)

	cart, err := suite.carts.GetCart(suite.user.ID)
	suite.Require().NoError(err)
	suite.Len(cart.Items, 2)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderDisabledShop() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Model(&models.Shop{}).
		Where("id = ?", listing.ShopID).
		Update("state", false).Error)

	_, err = suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.ErrorIs(err, ErrConflict)
}

func (suite *OrderServiceTestSuite) TestSetStatusPipeline() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)

	for _, next := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusAssembled,
		models.OrderStatusSent,
		models.OrderStatusDelivered,
	} {
		updated, err := suite.orders.SetStatus(suite.user.ID, order.ID, next)
		suite.Require().NoError(err)
		suite.Equal(next, updated.Status)
	}

	// Delivered is terminal
	_, err = suite.orders.SetStatus(suite.user.ID, order.ID, models.OrderStatusCanceled)
	suite.ErrorIs(err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestSetStatusSkippingStepRejected() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)

	_, err = suite.orders.SetStatus(suite.user.ID, order.ID, models.OrderStatusSent)
	suite.ErrorIs(err, ErrInvalidTransition)

	_, err = suite.orders.SetStatus(suite.user.ID, order.ID, "bogus")
	suite.ErrorIs(err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestCancelRestoresStock() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 4}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)
	suite.Equal(1, listingQuantity(suite.T(), suite.db, listing.ID))

	_, err = suite.orders.SetStatus(suite.user.ID, order.ID, models.OrderStatusCanceled)
	suite.Require().NoError(err)
	suite.Equal(5, listingQuantity(suite.T(), suite.db, listing.ID))
}

func (suite *OrderServiceTestSuite) TestSetStatusScopedToOwner() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)

	// A foreign caller cannot see the order, let alone move it
	other := createTestUser(suite.T(), suite.db, "other@example.com", models.UserRoleBuyer)
	_, err = suite.orders.SetStatus(other.ID, order.ID, models.OrderStatusCanceled)
	suite.ErrorIs(err, ErrNotFound)
	suite.Equal(models.OrderStatusNew, orderStatus(suite.T(), suite.db, order.ID))

	// The owner can
	updated, err := suite.orders.SetStatus(suite.user.ID, order.ID, models.OrderStatusCanceled)
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusCanceled, updated.Status)

	// The back-office variant skips the ownership filter
	_, err = suite.orders.SetStatusAny(order.ID, models.OrderStatusConfirmed)
	suite.ErrorIs(err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestGetOrderScopedToOwner() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 5)
	_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, "other@example.com", models.UserRoleBuyer)
	_, err = suite.orders.GetOrder(other.ID, order.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *OrderServiceTestSuite) TestListOrders() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 10, 20)

	for i := 0; i < 3; i++ {
		_, err := suite.carts.AddItems(suite.user.ID, &AddCartItemsRequest{
			Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
		})
		suite.Require().NoError(err)
		_, err = suite.orders.PlaceOrder(suite.user.ID, suite.placeOrderRequest())
		suite.Require().NoError(err)
	}

	result, err := suite.orders.ListOrders(suite.user.ID, utils.PaginationParams{
		Page: 1, Limit: 2, Sort: "created_at", Order: "desc",
	})
	suite.Require().NoError(err)
	suite.EqualValues(3, result.Total)
	suite.Equal(2, result.TotalPages)

	orders, ok := result.Data.([]models.Order)
	suite.Require().True(ok)
	suite.Len(orders, 2)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

// internal/services/partner_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/tasks"
	"github.com/procurex/orders-backend/internal/utils"
)

type PartnerServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	queue   *tasks.Queue
	partner *PartnerService
	seller  *models.User
}

func (suite *PartnerServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig(suite.T())
	suite.queue = newTestQueue()

	storage, err := NewStorageService(cfg)
	suite.Require().NoError(err)
	priceLists := NewPriceListService(suite.db, storage)

	suite.partner = NewPartnerService(suite.db, suite.queue, priceLists)
	suite.seller = createTestUser(suite.T(), suite.db, "seller@example.com", models.UserRoleSeller)
}

func (suite *PartnerServiceTestSuite) drainQueue() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	suite.Require().NoError(suite.queue.Shutdown(ctx))
}

func (suite *PartnerServiceTestSuite) TestShopStateWithoutShop() {
	_, err := suite.partner.GetShop(suite.seller.ID)
	suite.ErrorIs(err, ErrNotFound)

	off := false
	_, err = suite.partner.SetShopState(suite.seller.ID, &SetShopStateRequest{State: &off})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *PartnerServiceTestSuite) TestSetShopState() {
	userID := suite.seller.ID
	shop := models.Shop{Name: "my-shop", UserID: &userID, State: true}
	suite.Require().NoError(suite.db.Create(&shop).Error)

	off := false
	updated, err := suite.partner.SetShopState(suite.seller.ID, &SetShopStateRequest{State: &off})
	suite.Require().NoError(err)
	suite.False(updated.State)

	on := true
	updated, err = suite.partner.SetShopState(suite.seller.ID, &SetShopStateRequest{State: &on})
	suite.Require().NoError(err)
	suite.True(updated.State)
}

func (suite *PartnerServiceTestSuite) TestEnqueueImportRunsInBackground() {
	job := suite.partner.EnqueueImport(suite.seller.ID, []byte(samplePriceList))
	suite.Equal("price_list_import", job.Name)
	suite.NotZero(job.ID)

	suite.drainQueue()

	// The job actually imported the file
	var listings int64
	suite.db.Model(&models.ProductInfo{}).Count(&listings)
	suite.EqualValues(2, listings)
}

func (suite *PartnerServiceTestSuite) TestEnqueueExportRequiresShop() {
	_, err := suite.partner.EnqueueExport(suite.seller.ID)
	suite.ErrorIs(err, ErrNotFound)

	userID := suite.seller.ID
	shop := models.Shop{Name: "my-shop", UserID: &userID, State: true}
	suite.Require().NoError(suite.db.Create(&shop).Error)

	job, err := suite.partner.EnqueueExport(suite.seller.ID)
	suite.Require().NoError(err)
	suite.Equal("price_list_export", job.Name)

	suite.drainQueue()
}

func (suite *PartnerServiceTestSuite) TestListShopOrders() {
	// Seed the seller's catalog and a buyer's order against it
	job := suite.partner.EnqueueImport(suite.seller.ID, []byte(samplePriceList))
	suite.NotZero(job.ID)
	suite.drainQueue()

	var listing models.ProductInfo
	suite.Require().NoError(suite.db.First(&listing).Error)

	buyer := createTestUser(suite.T(), suite.db, "buyer@example.com", models.UserRoleBuyer)
	carts := NewCartService(suite.db)
	cfg := newTestConfig(suite.T())
	orders := NewOrderService(suite.db, newTestQueue(), NewNotificationService(suite.db, cfg))

	_, err := carts.AddItems(buyer.ID, &AddCartItemsRequest{
		Items: []CartItemRequest{{ProductInfoID: listing.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)
	_, err = orders.PlaceOrder(buyer.ID, &PlaceOrderRequest{
		Contact: ContactRequest{City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+7 900 000-00-00"},
	})
	suite.Require().NoError(err)

	result, err := suite.partner.ListShopOrders(suite.seller.ID, utils.PaginationParams{
		Page: 1, Limit: 20, Sort: "created_at", Order: "desc",
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Total)

	// A seller with no shop gets a not-found, not an empty page
	stranger := createTestUser(suite.T(), suite.db, "stranger@example.com", models.UserRoleSeller)
	_, err = suite.partner.ListShopOrders(stranger.ID, utils.PaginationParams{Page: 1, Limit: 20})
	suite.ErrorIs(err, ErrNotFound)
}

func TestPartnerServiceSuite(t *testing.T) {
	suite.Run(t, new(PartnerServiceTestSuite))
}

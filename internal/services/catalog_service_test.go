// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	catalog *CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = NewCatalogService(suite.db)
}

func (suite *CatalogServiceTestSuite) defaultParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func (suite *CatalogServiceTestSuite) TestListListingsHidesDisabledShops() {
	visible := createTestListing(suite.T(), suite.db, "shop-on", "widget", 100, 5)
	hidden := createTestListing(suite.T(), suite.db, "shop-off", "gadget", 200, 5)
	suite.Require().NoError(suite.db.Model(&models.Shop{}).
		Where("id = ?", hidden.ShopID).
		Update("state", false).Error)

	result, err := suite.catalog.ListListings(nil, suite.defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Total)

	listings, ok := result.Data.([]models.ProductInfo)
	suite.Require().True(ok)
	suite.Require().Len(listings, 1)
	suite.Equal(visible.ID, listings[0].ID)

	// The detail view hides them too
	_, err = suite.catalog.GetListing(hidden.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *CatalogServiceTestSuite) TestListListingsFilters() {
	cheap := createTestListing(suite.T(), suite.db, "shop-a", "widget", 50, 5)
	createTestListing(suite.T(), suite.db, "shop-a", "gadget", 500, 0)

	priceMax := 100.0
	result, err := suite.catalog.ListListings(&ListingFilters{MaxPrice: &priceMax}, suite.defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Total)

	result, err = suite.catalog.ListListings(&ListingFilters{InStock: true}, suite.defaultParams())
	suite.Require().NoError(err)
	listings := result.Data.([]models.ProductInfo)
	suite.Require().Len(listings, 1)
	suite.Equal(cheap.ID, listings[0].ID)

	result, err = suite.catalog.ListListings(&ListingFilters{Search: "gadg"}, suite.defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Total)

	result, err = suite.catalog.ListListings(&ListingFilters{ShopID: &cheap.ShopID}, suite.defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(2, result.Total)
}

func (suite *CatalogServiceTestSuite) TestListListingsSortByPrice() {
	createTestListing(suite.T(), suite.db, "shop-a", "widget", 300, 5)
	createTestListing(suite.T(), suite.db, "shop-a", "gadget", 100, 5)
	createTestListing(suite.T(), suite.db, "shop-a", "gizmo", 200, 5)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "price", Order: "asc"}
	result, err := suite.catalog.ListListings(nil, params)
	suite.Require().NoError(err)

	listings := result.Data.([]models.ProductInfo)
	suite.Require().Len(listings, 3)
	suite.InDelta(100, listings[0].Price, 0.001)
	suite.InDelta(300, listings[2].Price, 0.001)
}

func (suite *CatalogServiceTestSuite) TestGetListingPreloadsRelations() {
	listing := createTestListing(suite.T(), suite.db, "shop-a", "widget", 100, 5)

	loaded, err := suite.catalog.GetListing(listing.ID)
	suite.Require().NoError(err)
	suite.Equal("widget", loaded.Product.Name)
	suite.Equal("test-category", loaded.Product.Category.Name)
	suite.Equal("shop-a", loaded.Shop.Name)
}

func (suite *CatalogServiceTestSuite) TestListCategoriesAndShops() {
	createTestListing(suite.T(), suite.db, "shop-b", "widget", 100, 5)
	suite.Require().NoError(suite.db.Create(&models.Shop{Name: "shop-closed", State: false}).Error)

	categories, err := suite.catalog.ListCategories()
	suite.Require().NoError(err)
	suite.Len(categories, 1)

	shops, err := suite.catalog.ListShops()
	suite.Require().NoError(err)
	suite.Require().Len(shops, 1)
	suite.Equal("shop-b", shops[0].Name)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

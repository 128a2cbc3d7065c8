// internal/services/pricelist_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/pricelist"
)

const samplePriceList = `
shops:
  - Svyaznoy
categories:
  - Smartphones
  - Accessories
goods:
  - id: 4216292
    name: Mi Mix 2
    category: Smartphones
    shop: Svyaznoy
    model: mi-mix-2-black
    price: 31990
    quantity: 12
  - id: 4216313
    name: USB-C Cable
    category: Accessories
    shop: Svyaznoy
    model: cable-1m
    price: 290
    quantity: 100
`

type PriceListServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	exportDir  string
	priceLists *PriceListService
	seller     *models.User
}

func (suite *PriceListServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig(suite.T())
	suite.exportDir = cfg.Export.Dir

	storage, err := NewStorageService(cfg)
	suite.Require().NoError(err)

	suite.priceLists = NewPriceListService(suite.db, storage)
	suite.seller = createTestUser(suite.T(), suite.db, "seller@example.com", models.UserRoleSeller)
}

func (suite *PriceListServiceTestSuite) TestImportCreatesCatalog() {
	summary, err := suite.priceLists.Import(suite.seller.ID, []byte(samplePriceList))
	suite.Require().NoError(err)

	suite.Equal("Svyaznoy", summary.Shop)
	suite.Equal(2, summary.Total)
	suite.Equal(2, summary.Created)

	// The shop was created and claimed by the importing seller
	var shop models.Shop
	suite.Require().NoError(suite.db.Where("name = ?", "Svyaznoy").First(&shop).Error)
	suite.Require().NotNil(shop.UserID)
	suite.Equal(suite.seller.ID, *shop.UserID)

	var categories, products, listings int64
	suite.db.Model(&models.Category{}).Count(&categories)
	suite.db.Model(&models.Product{}).Count(&products)
	suite.db.Model(&models.ProductInfo{}).Count(&listings)
	suite.EqualValues(2, categories)
	suite.EqualValues(2, products)
	suite.EqualValues(2, listings)

	var listing models.ProductInfo
	suite.Require().NoError(suite.db.
		Where("model = ?", "mi-mix-2-black").First(&listing).Error)
	suite.InDelta(31990, listing.Price, 0.001)
	suite.Equal(12, listing.Quantity)
	suite.Require().NotNil(listing.ExternalID)
	suite.EqualValues(4216292, *listing.ExternalID)
}

func (suite *PriceListServiceTestSuite) TestReimportReplacesListings() {
	_, err := suite.priceLists.Import(suite.seller.ID, []byte(samplePriceList))
	suite.Require().NoError(err)

	updated := `
shops:
  - Svyaznoy
categories:
  - Smartphones
goods:
  - id: 4216292
    name: Mi Mix 2
    category: Smartphones
    shop: Svyaznoy
    model: mi-mix-2-black
    price: 28990
    quantity: 7
`
	summary, err := suite.priceLists.Import(suite.seller.ID, []byte(updated))
	suite.Require().NoError(err)
	suite.Equal(1, summary.Total)

	// The file is authoritative: the cable listing is gone, the phone
	// carries the new price
	var listings []models.ProductInfo
	suite.Require().NoError(suite.db.Find(&listings).Error)
	suite.Require().Len(listings, 1)
	suite.InDelta(28990, listings[0].Price, 0.001)
	suite.Equal(7, listings[0].Quantity)

	// Products are never deleted by a re-import
	var products int64
	suite.db.Model(&models.Product{}).Count(&products)
	suite.EqualValues(2, products)
}

func (suite *PriceListServiceTestSuite) TestImportForeignShopRejected() {
	_, err := suite.priceLists.Import(suite.seller.ID, []byte(samplePriceList))
	suite.Require().NoError(err)

	rival := createTestUser(suite.T(), suite.db, "rival@example.com", models.UserRoleSeller)
	_, err = suite.priceLists.Import(rival.ID, []byte(samplePriceList))
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *PriceListServiceTestSuite) TestImportBadFile() {
	_, err := suite.priceLists.Import(suite.seller.ID, []byte("shops:\n  - Nameless\n"))
	suite.ErrorIs(err, pricelist.ErrNoGoods)

	_, err = suite.priceLists.Import(suite.seller.ID, []byte("goods: []\n"))
	suite.ErrorIs(err, pricelist.ErrNoGoods)

	_, err = suite.priceLists.Import(suite.seller.ID, []byte("{not yaml"))
	suite.Error(err)
}

func (suite *PriceListServiceTestSuite) TestExportRoundTrip() {
	_, err := suite.priceLists.Import(suite.seller.ID, []byte(samplePriceList))
	suite.Require().NoError(err)

	stored, err := suite.priceLists.Export(suite.seller.ID)
	suite.Require().NoError(err)
	suite.NotEmpty(stored.Key)

	data, err := os.ReadFile(filepath.Join(suite.exportDir, stored.Key))
	suite.Require().NoError(err)

	list, err := pricelist.Parse(data)
	suite.Require().NoError(err)
	suite.Equal([]string{"Svyaznoy"}, list.Shops)
	suite.Len(list.Goods, 2)
	suite.ElementsMatch([]string{"Smartphones", "Accessories"}, list.Categories)
}

func (suite *PriceListServiceTestSuite) TestExportWithoutShop() {
	buyer := createTestUser(suite.T(), suite.db, "buyer@example.com", models.UserRoleBuyer)
	_, err := suite.priceLists.Export(buyer.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func TestPriceListServiceSuite(t *testing.T) {
	suite.Run(t, new(PriceListServiceTestSuite))
}

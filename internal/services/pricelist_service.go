// internal/services/pricelist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/pricelist"
)

// PriceListService owns the supplier-facing YAML exchange: importing a
// price list into the catalog and rendering a shop's listings back out.
type PriceListService struct {
	db      *gorm.DB
	storage *StorageService
}

type ImportSummary struct {
	Shop    string `json:"shop"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Total   int    `json:"total"`
}

func NewPriceListService(db *gorm.DB, storage *StorageService) *PriceListService {
	return &PriceListService{db: db, storage: storage}
}

// Import replaces the catalog state described by the file: the named shop,
// categories and products are created when missing, and each good upserts
// its listing. Everything happens in one transaction so a bad file changes
// nothing. The shop is claimed for the importing seller when unowned;
// importing into a shop owned by someone else is refused.
func (s *PriceListService) Import(sellerID uuid.UUID, data []byte) (*ImportSummary, error) {
	list, err := pricelist.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(list.Goods) == 0 {
		return nil, pricelist.ErrNoGoods
	}

	shopName := list.Goods[0].Shop
	if len(list.Shops) > 0 {
		shopName = list.Shops[0]
	}
	if shopName == "" {
		return nil, errors.New("price list does not name a shop")
	}

	summary := &ImportSummary{Shop: shopName}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		shop, err := s.claimShop(tx, sellerID, shopName)
		if err != nil {
			return err
		}

		// Listings absent from the file are considered withdrawn.
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfo{}).Error; err != nil {
			return fmt.Errorf("failed to clear old listings: %w", err)
		}

		categories := make(map[string]uuid.UUID)
		for _, name := range list.Categories {
			cat, err := s.getOrCreateCategory(tx, name)
			if err != nil {
				return err
			}
			categories[name] = cat.ID
		}

		for _, good := range list.Goods {
			if good.Name == "" || good.Category == "" {
				return fmt.Errorf("good %q: name and category are required", good.Name)
			}
			if good.Price < 0 || good.Quantity < 0 {
				return fmt.Errorf("good %q: price and quantity must not be negative", good.Name)
			}

			categoryID, ok := categories[good.Category]
			if !ok {
				cat, err := s.getOrCreateCategory(tx, good.Category)
				if err != nil {
					return err
				}
				categoryID = cat.ID
				categories[good.Category] = categoryID
			}

			product, created, err := s.getOrCreateProduct(tx, good.Name, categoryID)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}

			listing := models.ProductInfo{
				ProductID: product.ID,
				ShopID:    shop.ID,
				Model:     good.Model,
				Price:     good.Price,
				Quantity:  good.Quantity,
			}
			if good.ExternalID != 0 {
				externalID := good.ExternalID
				listing.ExternalID = &externalID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "product_id"}, {Name: "shop_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"external_id", "model", "price", "quantity",
				}),
			}).Create(&listing).Error; err != nil {
				return fmt.Errorf("failed to upsert listing for %q: %w", good.Name, err)
			}
			summary.Total++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"shop":  summary.Shop,
		"total": summary.Total,
	}).Info("Price list imported")

	return summary, nil
}

// Export renders the seller's current listings as a price list and stores
// the artifact.
func (s *PriceListService) Export(sellerID uuid.UUID) (*StoredFile, error) {
	var shop models.Shop
	if err := s.db.Where("user_id = ?", sellerID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var listings []models.ProductInfo
	if err := s.db.
		Preload("Product").
		Preload("Product.Category").
		Where("shop_id = ?", shop.ID).
		Order("created_at ASC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	list := &pricelist.PriceList{
		Shops: []string{shop.Name},
		Goods: make([]pricelist.Good, 0, len(listings)),
	}
	seen := make(map[string]bool)
	for _, listing := range listings {
		category := listing.Product.Category.Name
		if !seen[category] {
			seen[category] = true
			list.Categories = append(list.Categories, category)
		}

		good := pricelist.Good{
			Name:     listing.Product.Name,
			Category: category,
			Shop:     shop.Name,
			Model:    listing.Model,
			Price:    listing.Price,
			Quantity: listing.Quantity,
		}
		if listing.ExternalID != nil {
			good.ExternalID = *listing.ExternalID
		}
		list.Goods = append(list.Goods, good)
	}

	data, err := pricelist.Render(list)
	if err != nil {
		return nil, err
	}

	return s.storage.StoreExport(shop.Name, data)
}

func (s *PriceListService) claimShop(tx *gorm.DB, sellerID uuid.UUID, name string) (*models.Shop, error) {
	var shop models.Shop
	err := tx.Where("name = ?", name).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		shop = models.Shop{Name: name, UserID: &sellerID, State: true}
		if err := tx.Create(&shop).Error; err != nil {
			return nil, fmt.Errorf("failed to create shop: %w", err)
		}
		return &shop, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if shop.UserID == nil {
		if err := tx.Model(&shop).Update("user_id", sellerID).Error; err != nil {
			return nil, fmt.Errorf("failed to claim shop: %w", err)
		}
		shop.UserID = &sellerID
		return &shop, nil
	}
	if *shop.UserID != sellerID {
		return nil, fmt.Errorf("shop %q belongs to another seller: %w", name, ErrForbidden)
	}
	return &shop, nil
}

func (s *PriceListService) getOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = models.Category{Name: name}
		if err := tx.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", name, err)
		}
		return &category, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *PriceListService) getOrCreateProduct(tx *gorm.DB, name string, categoryID uuid.UUID) (*models.Product, bool, error) {
	var product models.Product
	err := tx.Where("name = ? AND category_id = ?", name, categoryID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		product = models.Product{Name: name, CategoryID: categoryID}
		if err := tx.Create(&product).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create product %q: %w", name, err)
		}
		return &product, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("database error: %w", err)
	}
	return &product, false, nil
}

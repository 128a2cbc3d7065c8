// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type CatalogService struct {
	db *gorm.DB
}

// ListingFilters narrows the catalog listing search. Zero values mean
// "no filter".
type ListingFilters struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	ProductID  *uuid.UUID
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return categories, nil
}

// ListShops returns shops that are currently accepting orders.
func (s *CatalogService) ListShops() ([]models.Shop, error) {
	var shops []models.Shop
	if err := s.db.Where("state = ?", true).Order("name ASC").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return shops, nil
}

// ListListings searches catalog listings. Listings of shops with state off
// never appear, whatever the filters say.
func (s *CatalogService) ListListings(filters *ListingFilters, params utils.PaginationParams) (utils.PaginationResult, error) {
	query := s.db.Model(&models.ProductInfo{}).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Joins("JOIN products ON products.id = product_infos.product_id").
		Where("shops.state = ?", true)

	if filters != nil {
		if filters.ShopID != nil {
			query = query.Where("product_infos.shop_id = ?", *filters.ShopID)
		}
		if filters.CategoryID != nil {
			query = query.Where("products.category_id = ?", *filters.CategoryID)
		}
		if filters.ProductID != nil {
			query = query.Where("product_infos.product_id = ?", *filters.ProductID)
		}
		if filters.Search != "" {
			searchTerm := "%" + filters.Search + "%"
			query = query.Where("products.name LIKE ? OR product_infos.model LIKE ?", searchTerm, searchTerm)
		}
		if filters.MinPrice != nil {
			query = query.Where("product_infos.price >= ?", *filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			query = query.Where("product_infos.price <= ?", *filters.MaxPrice)
		}
		if filters.InStock {
			query = query.Where("product_infos.quantity > 0")
		}
	}

	// Count total records
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count listings: %w", err)
	}

	// Sort columns must be qualified, the query joins three tables
	sortColumns := map[string]string{
		"price":      "product_infos.price",
		"quantity":   "product_infos.quantity",
		"model":      "product_infos.model",
		"name":       "products.name",
		"created_at": "product_infos.created_at",
	}
	query = utils.ApplySort(query, params, sortColumns)
	query = utils.ApplyPagination(query, params)

	var listings []models.ProductInfo
	if err := query.
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		Find(&listings).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return utils.CreatePaginationResult(listings, total, params), nil
}

// GetListing loads one listing with its product, category and shop attached.
// A listing whose shop is switched off is treated as absent.
func (s *CatalogService) GetListing(listingID uuid.UUID) (*models.ProductInfo, error) {
	var listing models.ProductInfo
	err := s.db.
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		First(&listing, "id = ?", listingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !listing.Shop.State {
		return nil, fmt.Errorf("listing: %w", ErrNotFound)
	}

	return &listing, nil
}

// internal/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /shops
func (h *CatalogHandler) ListShops(c *gin.Context) {
	shops, err := h.catalogService.ListShops()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"shops": shops,
	})
}

// GET /products
func (h *CatalogHandler) ListListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := parseListingFilters(c)
	filters.Search = params.Search

	result, err := h.catalogService.ListListings(filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *CatalogHandler) GetListing(c *gin.Context) {
	listingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	listing, err := h.catalogService.GetListing(listingID)
	if err != nil {
		respondServiceError(c, "listing", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

func parseListingFilters(c *gin.Context) *services.ListingFilters {
	filters := &services.ListingFilters{}

	if v := c.Query("shop_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.ShopID = &id
		}
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.CategoryID = &id
		}
	}
	if v := c.Query("product_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.ProductID = &id
		}
	}
	if v := c.Query("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &f
		}
	}
	if v := c.Query("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &f
		}
	}
	if v := c.Query("in_stock"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters.InStock = b
		}
	}

	return filters
}

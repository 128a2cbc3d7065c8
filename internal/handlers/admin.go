// internal/handlers/admin.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if v := c.Query("role"); v != "" {
		role := models.UserRole(v)
		filter.Role = &role
	}
	if v := c.Query("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &b
		}
	}
	if v := c.Query("created_after"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if v := c.Query("created_before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedBefore = &t
		}
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.adminService.SetUserActive(userID, *req.IsActive, adminID); err != nil {
		respondServiceError(c, "user", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user_id":   userID,
		"is_active": *req.IsActive,
	})
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AdminCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	category, err := h.adminService.CreateCategory(adminID, &req)
	if err != nil {
		respondServiceError(c, "category", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"category": category,
	})
}

// DELETE /admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteCategory(adminID, categoryID); err != nil {
		respondServiceError(c, "category", err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.adminService.CreateProduct(adminID, &req)
	if err != nil {
		respondServiceError(c, "category", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteProduct(adminID, productID); err != nil {
		respondServiceError(c, "product", err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /admin/listings
func (h *AdminHandler) GetListings(c *gin.Context) {
	filter := services.AdminListingFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if v := c.Query("shop_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.ShopID = &id
		}
	}
	if v := c.Query("product_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.ProductID = &id
		}
	}

	result, err := h.adminService.GetListings(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, result)
}

// PUT /admin/listings/:id
func (h *AdminHandler) UpdateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdminListingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.adminService.UpdateListing(adminID, listingID, &req)
	if err != nil {
		respondServiceError(c, "listing", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// DELETE /admin/listings/:id
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteListing(adminID, listingID); err != nil {
		respondServiceError(c, "listing", err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /admin/shops
func (h *AdminHandler) GetShops(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.adminService.GetShops(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, result)
}

// PUT /admin/shops/:id/state
func (h *AdminHandler) SetShopState(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		State *bool `json:"state" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	shop, err := h.adminService.SetShopState(adminID, shopID, *req.State)
	if err != nil {
		respondServiceError(c, "shop", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyShopStateUpdated),
		"shop":    shop,
	})
}

// GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	filter := services.AdminOrderFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if v := c.Query("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.UserID = &id
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.OrderStatus(v)
		filter.Status = &status
	}
	if v := c.Query("amount_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.AmountMin = &f
		}
	}
	if v := c.Query("amount_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.AmountMax = &f
		}
	}
	if v := c.Query("created_after"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if v := c.Query("created_before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedBefore = &t
		}
	}

	orders, total, err := h.adminService.GetOrders(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(orders, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.adminService.SetOrderStatus(adminID, orderID, req.Status)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, result)
}

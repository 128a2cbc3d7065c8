// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type AdminService struct {
	db     *gorm.DB
	orders *OrderService
}

type AdminDashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalShops        int64   `json:"total_shops"`
	ActiveShops       int64   `json:"active_shops"`
	TotalListings     int64   `json:"total_listings"`
	TotalOrders       int64   `json:"total_orders"`
	OpenOrders        int64   `json:"open_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	OrderGrowth       float64 `json:"order_growth"`
	RevenueGrowth     float64 `json:"revenue_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole `json:"role,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`
	CreatedBefore *time.Time       `json:"created_before,omitempty"`
}

type AdminOrderFilter struct {
	utils.PaginationParams
	UserID        *uuid.UUID          `json:"user_id,omitempty"`
	Status        *models.OrderStatus `json:"status,omitempty"`
	AmountMin     *float64            `json:"amount_min,omitempty"`
	AmountMax     *float64            `json:"amount_max,omitempty"`
	CreatedAfter  *time.Time          `json:"created_after,omitempty"`
	CreatedBefore *time.Time          `json:"created_before,omitempty"`
}

type AdminCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AdminProductRequest struct {
	Name       string    `json:"name" validate:"required,max=100"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
}

type AdminListingFilter struct {
	utils.PaginationParams
	ShopID    *uuid.UUID `json:"shop_id,omitempty"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

type AdminListingUpdateRequest struct {
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0"`
}

func NewAdminService(db *gorm.DB, orders *OrderService) *AdminService {
	return &AdminService{
		db:     db,
		orders: orders,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	// Catalog statistics
	s.db.Model(&models.Shop{}).Count(&stats.TotalShops)
	s.db.Model(&models.Shop{}).Where("state = ?", true).Count(&stats.ActiveShops)
	s.db.Model(&models.ProductInfo{}).Count(&stats.TotalListings)

	// Order statistics; canceled orders carry no revenue
	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).
		Where("status NOT IN ?", []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCanceled}).
		Count(&stats.OpenOrders)

	s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCanceled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.Order{}).
		Where("status <> ? AND created_at >= ?", models.OrderStatusCanceled, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.MonthlyRevenue)

	// Growth calculations
	var monthOrders, lastMonthOrders int64
	s.db.Model(&models.Order{}).Where("created_at >= ?", monthStart).Count(&monthOrders)
	s.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthOrders)

	var lastMonthRevenue float64
	s.db.Model(&models.Order{}).
		Where("status <> ? AND created_at >= ? AND created_at < ?",
			models.OrderStatusCanceled, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&lastMonthRevenue)

	if lastMonthOrders > 0 {
		stats.OrderGrowth = float64(monthOrders-lastMonthOrders) / float64(lastMonthOrders) * 100
	}
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = (stats.MonthlyRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	// Apply filters
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	sortColumns := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"email":      "email",
		"role":       "role",
		"is_active":  "is_active",
	}
	query = utils.ApplySort(query, filter.PaginationParams, sortColumns)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// SetUserActive flips the account switch. Staff accounts cannot be
// deactivated by other staff.
func (s *AdminService) SetUserActive(userID uuid.UUID, active bool, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsStaff && user.ID != adminID {
		return fmt.Errorf("cannot modify another staff account: %w", ErrForbidden)
	}

	if err := s.db.Model(&user).Update("is_active", active).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.createAuditLog(adminID, "SET_USER_ACTIVE", "user", &userID,
		map[string]interface{}{"is_active": active})

	return nil
}

// Category Management
func (s *AdminService) CreateCategory(adminID uuid.UUID, req *AdminCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("category %q already exists: %w", req.Name, ErrConflict)
	}

	category := &models.Category{Name: req.Name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.createAuditLog(adminID, "CREATE_CATEGORY", "category", &category.ID,
		map[string]interface{}{"name": category.Name})

	return category, nil
}

func (s *AdminService) DeleteCategory(adminID, categoryID uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var products int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&products).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if products > 0 {
		return fmt.Errorf("category %q still has %d products: %w", category.Name, products, ErrConflict)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.createAuditLog(adminID, "DELETE_CATEGORY", "category", &categoryID,
		map[string]interface{}{"name": category.Name})

	return nil
}

// Product Management
func (s *AdminService) CreateProduct(adminID uuid.UUID, req *AdminProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing models.Product
	if err := s.db.Where("name = ? AND category_id = ?", req.Name, req.CategoryID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("product %q already exists: %w", req.Name, ErrConflict)
	}

	product := &models.Product{Name: req.Name, CategoryID: req.CategoryID}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.Category = category

	s.createAuditLog(adminID, "CREATE_PRODUCT", "product", &product.ID,
		map[string]interface{}{"name": product.Name, "category_id": req.CategoryID})

	return product, nil
}

func (s *AdminService) DeleteProduct(adminID, productID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var listings int64
	if err := s.db.Model(&models.ProductInfo{}).Where("product_id = ?", productID).Count(&listings).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if listings > 0 {
		return fmt.Errorf("product %q still has %d listings: %w", product.Name, listings, ErrConflict)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.createAuditLog(adminID, "DELETE_PRODUCT", "product", &productID,
		map[string]interface{}{"name": product.Name})

	return nil
}

// Listing Management
func (s *AdminService) GetListings(filter AdminListingFilter) (utils.PaginationResult, error) {
	query := s.db.Model(&models.ProductInfo{})

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count listings: %w", err)
	}

	sortColumns := map[string]string{
		"created_at": "created_at",
		"price":      "price",
		"quantity":   "quantity",
		"model":      "model",
	}
	query = utils.ApplySort(query, filter.PaginationParams, sortColumns)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var listings []models.ProductInfo
	if err := query.
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		Find(&listings).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return utils.CreatePaginationResult(listings, total, filter.PaginationParams), nil
}

func (s *AdminService) UpdateListing(adminID, listingID uuid.UUID, req *AdminListingUpdateRequest) (*models.ProductInfo, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var listing models.ProductInfo
	if err := s.db.Preload("Product").Preload("Shop").First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		updates["price"] = *req.Price
		listing.Price = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
		listing.Quantity = *req.Quantity
	}
	if len(updates) == 0 {
		return &listing, nil
	}

	if err := s.db.Model(&listing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	s.createAuditLog(adminID, "UPDATE_LISTING", "listing", &listingID, updates)

	return &listing, nil
}

func (s *AdminService) DeleteListing(adminID, listingID uuid.UUID) error {
	var listing models.ProductInfo
	if err := s.db.First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("listing: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var inCarts int64
	if err := s.db.Model(&models.CartItem{}).Where("product_info_id = ?", listingID).Count(&inCarts).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if inCarts > 0 {
		if err := s.db.Where("product_info_id = ?", listingID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart references: %w", err)
		}
	}

	if err := s.db.Delete(&listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.createAuditLog(adminID, "DELETE_LISTING", "listing", &listingID,
		map[string]interface{}{"product_id": listing.ProductID, "shop_id": listing.ShopID})

	return nil
}

// Shop Management
func (s *AdminService) GetShops(params utils.PaginationParams) (utils.PaginationResult, error) {
	query := s.db.Model(&models.Shop{})

	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count shops: %w", err)
	}

	sortColumns := map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"state":      "state",
	}
	query = utils.ApplySort(query, params, sortColumns)
	query = utils.ApplyPagination(query, params)

	var shops []models.Shop
	if err := query.Preload("User").Find(&shops).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch shops: %w", err)
	}

	return utils.CreatePaginationResult(shops, total, params), nil
}

// SetShopState is the back-office override of the seller's own switch.
func (s *AdminService) SetShopState(adminID, shopID uuid.UUID, state bool) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&shop).Update("state", state).Error; err != nil {
		return nil, fmt.Errorf("failed to update shop state: %w", err)
	}
	shop.State = state

	s.createAuditLog(adminID, "SET_SHOP_STATE", "shop", &shopID,
		map[string]interface{}{"state": state})

	return &shop, nil
}

// Order Management
func (s *AdminService) GetOrders(filter AdminOrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	// Apply filters
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AmountMin != nil {
		query = query.Where("total_amount >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		query = query.Where("total_amount <= ?", *filter.AmountMax)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	// Apply sorting and pagination
	sortColumns := map[string]string{
		"created_at":   "created_at",
		"updated_at":   "updated_at",
		"total_amount": "total_amount",
		"status":       "status",
	}
	query = utils.ApplySort(query, filter.PaginationParams, sortColumns)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Contact").
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// SetOrderStatus moves any order along the pipeline on behalf of the back
// office. The transition rules are the same as everywhere else.
func (s *AdminService) SetOrderStatus(adminID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.SetStatusAny(orderID, next)
	if err != nil {
		return nil, err
	}

	s.createAuditLog(adminID, "SET_ORDER_STATUS", "order", &orderID,
		map[string]interface{}{"status": next})

	return order, nil
}

// Audit Logs
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) (utils.PaginationResult, error) {
	query := s.db.Model(&models.AuditLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count audit logs: %w", err)
	}

	sortColumns := map[string]string{
		"created_at":    "created_at",
		"action":        "action",
		"resource_type": "resource_type",
	}
	query = utils.ApplySort(query, params, sortColumns)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Preload("User").Find(&logs).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return utils.CreatePaginationResult(logs, total, params), nil
}

func (s *AdminService) createAuditLog(adminID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, values map[string]interface{}) {
	log := models.AuditLog{
		UserID:       &adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    values,
	}
	if err := s.db.Create(&log).Error; err != nil {
		// Audit failures must not break the admin operation
		return
	}
}

// internal/services/partner_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/tasks"
	"github.com/procurex/orders-backend/internal/utils"
)

// PartnerService covers the seller side of the platform: the shop on/off
// switch, price-list jobs and the orders that touch the seller's listings.
type PartnerService struct {
	db         *gorm.DB
	queue      *tasks.Queue
	priceLists *PriceListService
}

type SetShopStateRequest struct {
	State *bool `json:"state" validate:"required"`
}

func NewPartnerService(db *gorm.DB, queue *tasks.Queue, priceLists *PriceListService) *PartnerService {
	return &PartnerService{
		db:         db,
		queue:      queue,
		priceLists: priceLists,
	}
}

// GetShop returns the seller's shop or ErrNotFound when none is attached to
// the account yet.
func (s *PartnerService) GetShop(sellerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.Where("user_id = ?", sellerID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &shop, nil
}

// SetShopState switches order intake for the seller's shop on or off.
func (s *PartnerService) SetShopState(sellerID uuid.UUID, req *SetShopStateRequest) (*models.Shop, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	shop, err := s.GetShop(sellerID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(shop).Update("state", *req.State).Error; err != nil {
		return nil, fmt.Errorf("failed to update shop state: %w", err)
	}
	shop.State = *req.State
	return shop, nil
}

// EnqueueImport schedules a price-list import and returns the job handle.
// The file is validated inside the job, not here; a malformed file shows up
// in the logs, not in the response.
func (s *PartnerService) EnqueueImport(sellerID uuid.UUID, data []byte) tasks.Job {
	payload := make([]byte, len(data))
	copy(payload, data)

	return s.queue.Enqueue("price_list_import", func() error {
		_, err := s.priceLists.Import(sellerID, payload)
		return err
	})
}

// EnqueueExport schedules rendering the seller's listings to a price-list
// artifact.
func (s *PartnerService) EnqueueExport(sellerID uuid.UUID) (tasks.Job, error) {
	// Fail fast when there is no shop to export
	if _, err := s.GetShop(sellerID); err != nil {
		return tasks.Job{}, err
	}

	return s.queue.Enqueue("price_list_export", func() error {
		_, err := s.priceLists.Export(sellerID)
		return err
	}), nil
}

// ListShopOrders returns orders holding at least one position from the
// seller's shop, newest first.
func (s *PartnerService) ListShopOrders(sellerID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	shop, err := s.GetShop(sellerID)
	if err != nil {
		return utils.PaginationResult{}, err
	}

	subquery := s.db.Model(&models.OrderItem{}).
		Select("order_items.order_id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Where("product_infos.shop_id = ?", shop.ID)

	query := s.db.Model(&models.Order{}).Where("id IN (?)", subquery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count orders: %w", err)
	}

	sortColumns := map[string]string{
		"created_at":   "orders.created_at",
		"total_amount": "orders.total_amount",
		"status":       "orders.status",
	}
	query = utils.ApplySort(query, params, sortColumns)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Contact").
		Find(&orders).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return utils.CreatePaginationResult(orders, total, params), nil
}

// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req.Contact)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.PlaceOrder(userID, &req)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderPlaced),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.orderService.ListOrders(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(userID, orderID)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
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

	order, err := h.orderService.SetStatus(userID, orderID, req.Status)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

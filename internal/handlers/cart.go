// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		respondServiceError(c, "cart", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// POST /cart/items
func (h *CartHandler) AddItems(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	cart, err := h.cartService.AddItems(userID, &req)
	if err != nil {
		respondServiceError(c, "listing", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    cart,
	})
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	cart, err := h.cartService.UpdateItem(userID, itemID, &req)
	if err != nil {
		respondServiceError(c, "cart_item", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.cartService.RemoveItem(userID, itemID); err != nil {
		respondServiceError(c, "cart_item", err)
		return
	}

	utils.NoContentResponse(c)
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		respondServiceError(c, "cart", err)
		return
	}

	utils.NoContentResponse(c)
}

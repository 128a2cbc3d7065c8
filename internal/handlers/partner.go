// internal/handlers/partner.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

// maxPriceListSize caps uploaded price-list files at 5MB.
const maxPriceListSize = 5 << 20

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// GET /partner/state
func (h *PartnerHandler) GetState(c *gin.Context) {
	sellerID, ok := h.currentSellerID(c)
	if !ok {
		return
	}

	shop, err := h.partnerService.GetShop(sellerID)
	if err != nil {
		respondServiceError(c, "shop", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"shop": shop,
	})
}

// POST /partner/state
func (h *PartnerHandler) SetState(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := h.currentSellerID(c)
	if !ok {
		return
	}

	var req services.SetShopStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	shop, err := h.partnerService.SetShopState(sellerID, &req)
	if err != nil {
		respondServiceError(c, "shop", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyShopStateUpdated),
		"shop":    shop,
	})
}

// POST /partner/pricelist
// Accepts the YAML either as a multipart "file" field or as the raw body.
func (h *PartnerHandler) ImportPriceList(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := h.currentSellerID(c)
	if !ok {
		return
	}

	data, err := readPriceListBody(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), err.Error())
		return
	}
	if len(data) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), nil)
		return
	}

	job := h.partnerService.EnqueueImport(sellerID, data)

	utils.AcceptedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyImportAccepted),
		"task":    job,
	})
}

// POST /partner/pricelist/export
func (h *PartnerHandler) ExportPriceList(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := h.currentSellerID(c)
	if !ok {
		return
	}

	job, err := h.partnerService.EnqueueExport(sellerID)
	if err != nil {
		respondServiceError(c, "shop", err)
		return
	}

	utils.AcceptedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExportAccepted),
		"task":    job,
	})
}

// GET /partner/orders
func (h *PartnerHandler) ListShopOrders(c *gin.Context) {
	sellerID, ok := h.currentSellerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.partnerService.ListShopOrders(sellerID, params)
	if err != nil {
		respondServiceError(c, "shop", err)
		return
	}

	utils.PaginatedResponse(c, result)
}

// currentSellerID enforces the seller role on the partner surface.
func (h *PartnerHandler) currentSellerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, false
	}

	role, _ := utils.GetUserRoleFromContext(c)
	if role != string(models.UserRoleSeller) {
		utils.ForbiddenResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

func readPriceListBody(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxPriceListSize))
	}

	return io.ReadAll(io.LimitReader(c.Request.Body, maxPriceListSize))
}

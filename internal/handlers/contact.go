// internal/handlers/contact.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// GET /contacts
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.ListContacts(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contacts": contacts,
	})
}

// POST /contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact, err := h.contactService.CreateContact(userID, &req)
	if err != nil {
		respondServiceError(c, "contact", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContactCreated),
		"contact": contact,
	})
}

// PUT /contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact, err := h.contactService.UpdateContact(userID, contactID, &req)
	if err != nil {
		respondServiceError(c, "contact", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contact": contact,
	})
}

// DELETE /contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(userID, contactID); err != nil {
		respondServiceError(c, "contact", err)
		return
	}

	utils.NoContentResponse(c)
}

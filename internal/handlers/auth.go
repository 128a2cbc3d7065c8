// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Register user; the account stays inactive until the mailed link is
	// followed, so no tokens are issued here
	user, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"user":    user,
	})
}

// GET /auth/confirm?user_id=...&token=...
func (h *AuthHandler) ConfirmRegistration(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "user_id"), nil)
		return
	}

	token := c.Query("token")
	if token == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "token"), nil)
		return
	}

	if err := h.authService.ConfirmRegistration(userID, token); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthConfirmed),
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Login user
	authResponse, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Refresh token
	authResponse, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// POST /auth/password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Send reset email
	if err := h.authService.RequestPasswordReset(&req); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthPasswordReset),
	})
}

// POST /auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Reset password
	if err := h.authService.ConfirmPasswordReset(&req); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthPasswordResetDone),
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Get user profile
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

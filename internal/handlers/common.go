// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/i18n"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/utils"
)

// respondServiceError maps the services' sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500 with the raw message hidden behind a
// generic response.
func respondServiceError(c *gin.Context, resource string, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartInsufficient), err.Error())
	case errors.Is(err, services.ErrEmptyCart):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderBadTransition), err.Error())
	case errors.Is(err, services.ErrInactiveAccount):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// currentUserID pulls the authenticated user out of the gin context. The
// auth middleware guarantees it is present on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam reads a UUID path parameter or answers 400.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

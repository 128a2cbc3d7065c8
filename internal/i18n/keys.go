// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired          = "auth.required"
	KeyAuthInvalidToken      = "auth.invalid_token"
	KeyAuthTokenExpired      = "auth.token_expired"
	KeyAuthLoginSuccess      = "auth.login_success"
	KeyAuthRegisterSuccess   = "auth.register_success"
	KeyAuthConfirmed         = "auth.confirmed"
	KeyAuthPasswordReset     = "auth.password_reset"
	KeyAuthPasswordResetDone = "auth.password_reset_done"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Access
	KeyAccessDenied = "access.denied"

	// Users
	KeyUserNotFound = "user.not_found"

	// Catalog
	KeyProductNotFound = "product.not_found"
	KeyListingNotFound = "listing.not_found"

	// Cart
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemNotFound = "cart_item.not_found"
	KeyCartInsufficient = "cart.insufficient_stock"
	KeyCartEmpty        = "cart.empty"

	// Orders
	KeyOrderPlaced        = "order.placed"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderBadTransition = "order.bad_transition"

	// Contacts
	KeyContactCreated  = "contact.created"
	KeyContactNotFound = "contact.not_found"

	// Partner
	KeyShopNotFound     = "shop.not_found"
	KeyShopStateUpdated = "shop.state_updated"
	KeyImportAccepted   = "import.accepted"
	KeyExportAccepted   = "export.accepted"
	KeyFileMissing      = "file.missing"
)

// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Clients
	KeyClientNotFound       = "client.not_found"
	KeyClientDuplicateEmail = "client.duplicate_email"
	KeyClientInvalidID      = "client.invalid_id"

	// Favorites
	KeyFavoriteNotFound       = "favorite.not_found"
	KeyFavoriteDuplicate      = "favorite.duplicate"
	KeyFavoriteInvalidProduct = "favorite.invalid_product_id"

	// Products
	KeyProductNotFound = "product.not_found"

	// Catalog
	KeyCatalogUnavailable = "catalog.unavailable"

	// Generic
	KeyIntegrityError = "error.integrity"
	KeyInternalError  = "error.internal"
	KeyRateLimited    = "error.rate_limited"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)

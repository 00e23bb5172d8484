package cart

import "errors"

var (
	// -- Authentication --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrMissingProduct = errors.New("product id is required")

	// -- Resource State --
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
)

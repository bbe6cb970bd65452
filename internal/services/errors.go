// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateFavorite = errors.New("product already in favorites")
	ErrIntegrity         = errors.New("integrity error")
	ErrGateway           = errors.New("product catalog unavailable")
	ErrUnauthenticated   = errors.New("no authenticated client")
	ErrValidation        = errors.New("validation failed")
)

// Err joins a typed error with its cause and an optional message so callers
// can branch with errors.Is while logs keep the detail.
func Err(typedError error, innerErr error, msgTemplate string, args ...any) error {
	if msgTemplate == "" {
		return errors.Join(typedError, innerErr)
	}
	return errors.Join(typedError, innerErr, fmt.Errorf(msgTemplate, args...))
}

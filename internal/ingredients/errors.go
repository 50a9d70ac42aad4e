package ingredients

import (
	"errors"
	"net/http"
)

// Domain errors for ingredient operations.
var (
	ErrNotFound    = errors.New("ingredient not found")
	ErrDuplicate   = errors.New("ingredient already exists")
	ErrInvalidName = errors.New("ingredient name has no letters or digits")
	ErrInvalidDiet = errors.New("invalid diet")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidDiet) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

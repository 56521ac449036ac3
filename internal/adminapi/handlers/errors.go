package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cakehq/cake/internal/store"
)

// storeErrorStatus maps a store error's category to an HTTP status code.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrIntegrity):
		if strings.Contains(err.Error(), "no such task id") {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrLockFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

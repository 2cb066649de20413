package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusNoPermission   = http.StatusForbidden
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrBadGateway           = http.StatusBadGateway
)

var (
	ErrInternalServer = errors.New("Internal server error")
	ErrClient         = errors.New("Bad request")
	ErrNotLoggedIn    = errors.New("Unauthorized access")
	ErrUnauthorized   = errors.New("Forbidden access")
	ErrNotFound       = errors.New("Resource not found")
	ErrConflict       = errors.New("Conflicting record found")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotOnSale    = errors.New("product not on sale")
	ErrAlreadyFavorited    = errors.New("product already favorited")
	ErrNotFavorited        = errors.New("product not favorited")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryIsDirectory = errors.New("category is a directory")
	ErrSearchUnavailable   = errors.New("search service unavailable")

	// ErrRejected marks a downstream refusal caused by the request itself.
	// Retrying it or counting it against a breaker does not help.
	ErrRejected = errors.New("request rejected")

	ErrMalformedEvent = errors.New("malformed event")
)

var errorMap = map[error]int{
	ErrInternalServer:      ErrStatusInternalServer,
	ErrClient:              ErrStatusClient,
	ErrNotLoggedIn:         ErrStatusNotLoggedIn,
	ErrUnauthorized:        ErrStatusNoPermission,
	ErrNotFound:            ErrStatusNotFound,
	ErrConflict:            ErrStatusConflict,
	ErrProductNotFound:     ErrStatusNotFound,
	ErrProductNotOnSale:    ErrStatusClient,
	ErrAlreadyFavorited:    ErrStatusConflict,
	ErrNotFavorited:        ErrStatusNotFound,
	ErrCategoryNotFound:    ErrStatusClient,
	ErrCategoryIsDirectory: ErrStatusClient,
	ErrSearchUnavailable:   ErrBadGateway,
}

// GetErrorStatusCode maps err, or any sentinel it wraps, to an HTTP status.
// Unknown errors map to 500.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for target, errStatusCode := range errorMap {
		if errors.Is(err, target) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

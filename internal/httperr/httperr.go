package httperr

import (
	"fmt"
	"net/http"
)

// Error is a domain failure carrying the HTTP status it maps to. Handlers
// and resolvers surface it as a single {statusCode, message} response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Sentinel domain errors. Matched with errors.Is, so each failure kind is
// a single shared value.
var (
	ErrProductNotFound       = &Error{Status: http.StatusNotFound, Message: "product not found"}
	ErrAttributeNotFound     = &Error{Status: http.StatusNotFound, Message: "attribute not found"}
	ErrOptionNotFound        = &Error{Status: http.StatusNotFound, Message: "attribute option not found"}
	ErrUserNotFound          = &Error{Status: http.StatusNotFound, Message: "user not found"}
	ErrCartNotFound          = &Error{Status: http.StatusNotFound, Message: "cart not found"}
	ErrProductNotFoundInCart = &Error{Status: http.StatusNotFound, Message: "product not found in cart"}
	ErrReviewNotFound        = &Error{Status: http.StatusNotFound, Message: "review not found"}
	ErrRatingNotFound        = &Error{Status: http.StatusNotFound, Message: "rating not found"}
	ErrNoReviewsFound        = &Error{Status: http.StatusNotFound, Message: "no reviews found"}
	ErrNoRatingsFound        = &Error{Status: http.StatusNotFound, Message: "no ratings found"}
	ErrNoActiveUsers         = &Error{Status: http.StatusBadRequest, Message: "no active users found"}

	ErrAttributeExists = &Error{Status: http.StatusConflict, Message: "attribute already exists"}
	ErrOptionExists    = &Error{Status: http.StatusConflict, Message: "option already exists"}

	ErrInvalidPageNumber = &Error{Status: http.StatusBadRequest, Message: "invalid page number"}

	ErrDeletingCart    = &Error{Status: http.StatusInternalServerError, Message: "error deleting cart"}
	ErrDeletingProduct = &Error{Status: http.StatusInternalServerError, Message: "error deleting product"}
	ErrDeletingUser    = &Error{Status: http.StatusInternalServerError, Message: "error deleting user"}
	ErrDeletingReview  = &Error{Status: http.StatusInternalServerError, Message: "error deleting review"}
	ErrDeletingRating  = &Error{Status: http.StatusInternalServerError, Message: "error deleting rating"}
)

// OutOfStockError reports a quantity request exceeding the option's stock.
// It keeps the available/requested counts for the response body.
type OutOfStockError struct {
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product out of stock: requested %d, available %d", e.Requested, e.Available)
}

// Status lets OutOfStockError participate in the uniform status mapping.
func (e *OutOfStockError) Status() int {
	return http.StatusBadRequest
}

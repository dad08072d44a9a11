package model

import (
	"errors"
	"net/http"

	"agatecity-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSlugAlreadyExists = errors.New("slug already exists")
	ErrSKUAlreadyExists  = errors.New("SKU already exists")
	ErrInvalidStatus     = errors.New("invalid product status")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidSort       = errors.New("invalid sort parameter")
	ErrDatabaseQuery     = errors.New("database query error")
	ErrMediaOffload      = errors.New("failed to store product media")
)

var productErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrProductNotFound: {
		Status:  http.StatusNotFound,
		Title:   "Product not found",
		Message: "The specified product does not exist",
	},
	ErrSlugAlreadyExists: {
		Status:  http.StatusConflict,
		Title:   "Product name already exists",
		Message: "A product with a similar name already exists",
	},
	ErrSKUAlreadyExists: {
		Status:  http.StatusConflict,
		Title:   "SKU already exists",
		Message: "This SKU is already used by another product",
	},
	ErrInvalidStatus: {
		Status:  http.StatusBadRequest,
		Title:   "Invalid status",
		Message: "Status must be one of: active, draft, archived",
	},
	ErrInvalidPrice: {
		Status:  http.StatusBadRequest,
		Title:   "Invalid price",
		Message: "Price must not be negative",
	},
	ErrMediaOffload: {
		Status:  http.StatusBadGateway,
		Title:   "Media storage failed",
		Message: "Product media could not be stored. Please try again",
	},
}

// HandleProductError maps business errors to HTTP responses. Returns true
// when the request is finished.
func HandleProductError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for known, config := range productErrorMap {
		if errors.Is(err, known) {
			response.Error(c, config.Status, config.Title, config.Message)
			return true
		}
	}

	// Field-level validation errors từ ozzo
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.Error(c, http.StatusBadRequest, "Validation failed", verrs)
		return true
	}

	// Lỗi không xác định
	log.Error().Err(err).Msg("❌ Unhandled product error")
	response.Error(c, http.StatusInternalServerError, "Internal server error", "Something went wrong")
	return true
}

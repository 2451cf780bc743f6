package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector        = fmt.Errorf("empty vector")
	ErrDimensionMismatch  = fmt.Errorf("embedding dimension mismatch")
	ErrEncoderUnavailable = fmt.Errorf("text encoder unavailable")

	// 400 Bad Request
	ErrProductNameRequired    = fmt.Errorf("product name is required")
	ErrProductIDRequired      = fmt.Errorf("product id is required")
	ErrUserIDRequired         = fmt.Errorf("user id is required")
	ErrPriceMustBePositive    = fmt.Errorf("price must be positive")
	ErrLimitMustBePositive    = fmt.Errorf("limit must be positive")
	ErrQuantityMustBePositive = fmt.Errorf("quantity must be positive")
	ErrTooManyImages          = fmt.Errorf("too many images")
	ErrNoImages               = fmt.Errorf("no images provided")
	ErrUnsupportedMediaType   = fmt.Errorf("unsupported media type")
	ErrExpectedMultipart      = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields          = fmt.Errorf("missing required fields")
	ErrInvalidPrice           = fmt.Errorf("invalid price")
	ErrPricePrecision         = fmt.Errorf("price must have at most 2 decimal places")
	ErrFileTooLarge           = fmt.Errorf("file too large")
	ErrImageStoreDisabled     = fmt.Errorf("image store is disabled")
	ErrStatusBadRequest       = fmt.Errorf("bad request")
	ErrNoProducts             = fmt.Errorf("no products requested")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

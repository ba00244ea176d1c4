// Package errs is the application error taxonomy. Every handler funnels
// failures through Abort so status mapping and logging stay in one place.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pravindgholap/fashion-store/pkg/logger"
)

// SystemErrorMessage is the user-facing fallback for internal errors.
const SystemErrorMessage = "internal server error"

type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindValidation
	KindInsufficientStock
	KindEmptyCart
	KindInvalidDiscount
	KindConflict
)

// AppError wraps an underlying error with a kind and a safe message.
type AppError struct {
	Kind    Kind
	Err     error
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInsufficientStock, KindEmptyCart, KindInvalidDiscount:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error, message string) *AppError {
	return &AppError{Kind: kind, Err: err, Message: message}
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func InsufficientStock(productName string) *AppError {
	return New(KindInsufficientStock, "Insufficient stock for "+productName)
}

func EmptyCart() *AppError {
	return New(KindEmptyCart, "Cart is empty")
}

func InvalidDiscount(message string) *AppError {
	return New(KindInvalidDiscount, message)
}

func Conflict(err error, message string) *AppError {
	return Wrap(KindConflict, err, message)
}

func Unexpected(err error) *AppError {
	return Wrap(KindUnexpected, err, SystemErrorMessage)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Abort writes the JSON error response. Unexpected errors are logged with
// their cause and surfaced opaque, everything else goes out verbatim.
func Abort(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Unexpected(err)
	}
	if appErr.Kind == KindUnexpected {
		logger.Error().Err(appErr.Err).Str("path", c.FullPath()).Msg("unexpected error")
		c.AbortWithStatusJSON(appErr.Status(), gin.H{"error": SystemErrorMessage})
		return
	}
	c.AbortWithStatusJSON(appErr.Status(), gin.H{"error": appErr.Message})
}

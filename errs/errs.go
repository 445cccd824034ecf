package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Category classifies an error for HTTP status mapping.
type Category int

const (
	CategoryNotFound Category = iota
	CategoryConflict
	CategoryBusiness
	CategoryValidation
	CategoryUnauthorized
	CategoryInternal
)

// Error is the error type crossing service boundaries. Every category
// maps deterministically to one HTTP status code.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus returns the status code for the error's category.
func (e *Error) HTTPStatus() int {
	switch e.Category {
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryConflict:
		return http.StatusConflict
	case CategoryBusiness:
		return http.StatusUnprocessableEntity
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(entity string) *Error {
	return &Error{Category: CategoryNotFound, Message: entity + " not found"}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Category: CategoryConflict, Message: fmt.Sprintf(format, args...)}
}

func Business(format string, args ...any) *Error {
	return &Error{Category: CategoryBusiness, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	return &Error{Category: CategoryUnauthorized, Message: message}
}

func Internal(err error) *Error {
	return &Error{Category: CategoryInternal, Message: err.Error()}
}

// Predeclared errors for known conditions.
var (
	ErrMissingTenant          = Unauthorized("no tenant in request context")
	ErrInvalidCredentials     = Unauthorized("invalid email or password")
	ErrInvalidToken           = Unauthorized("missing or invalid bearer token")
	ErrDefaultTenantProtected = Business("the default tenant cannot be deleted")
	ErrEmptyAgentInput        = Validation("agent request needs a prompt or a file")
)

// FromDB converts a gorm lookup error for the named entity. Record-not-found
// becomes NotFound at the boundary; anything else is Internal.
func FromDB(err error, entity string) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	return Internal(err)
}

// Abort writes err to the response as {"error": message} with the mapped
// status code. Non-*Error values are wrapped as Internal so no raw errors
// leak to clients.
func Abort(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
}

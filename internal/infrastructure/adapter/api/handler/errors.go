package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// statusFor maps a domain error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrInsufficientBalance),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrConstraintViolation),
		errors.Is(err, domainerr.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrDatabaseConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides server-side details from clients
func messageFor(err error) string {
	switch {
	case errors.Is(err, domainerr.ErrUserNotFound):
		return "User not found"
	case domainerr.IsClientError(err):
		return err.Error()
	case errors.Is(err, domainerr.ErrDatabaseConnection):
		return "Service temporarily unavailable"
	default:
		return "Internal server error"
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: messageFor(err),
	})
}

// parseUserID reads the userId path parameter. Zero and non-numeric ids
// are rejected with the invalid user id code.
func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

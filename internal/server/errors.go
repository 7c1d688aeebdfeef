package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, documentdomain.ErrInvalidDocType),
		errors.Is(err, documentdomain.ErrInvalidFrequency),
		errors.Is(err, documentdomain.ErrInvalidClient),
		errors.Is(err, documentdomain.ErrMissingDocumentID),
		errors.Is(err, documentdomain.ErrNotAQuote),
		errors.Is(err, clientdomain.ErrInvalidClientName),
		errors.Is(err, clientdomain.ErrMissingCompany),
		errors.Is(err, companydomain.ErrInvalidCompanyName),
		errors.Is(err, paymentdomain.ErrZeroAmount),
		errors.Is(err, paymentdomain.ErrMissingDocument),
		errors.Is(err, currencydomain.ErrInvalidCurrencyCode),
		errors.Is(err, currencydomain.ErrInvalidPrecision):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, documentdomain.ErrDocumentNotFound),
		errors.Is(err, documentdomain.ErrLineItemNotFound),
		errors.Is(err, clientdomain.ErrClientNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, currencydomain.ErrCurrencyNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, documentdomain.ErrInvalidStatus),
		errors.Is(err, documentdomain.ErrDocumentVoided),
		errors.Is(err, documentdomain.ErrAlreadyConverted),
		errors.Is(err, documentdomain.ErrNumberConflict),
		errors.Is(err, clientdomain.ErrClientArchived),
		errors.Is(err, companydomain.ErrSlugTaken):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request failures for the access log so
// expected client errors are distinguishable from server faults.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case isValidationError(err):
		return "client", "validation_error"
	case isNotFoundError(err):
		return "client", "not_found"
	case isConflictError(err):
		return "client", "conflict"
	default:
		return "server", "internal_error"
	}
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	auditdomain "github.com/smallbiznis/balanza/internal/audit/domain"
	balancedomain "github.com/smallbiznis/balanza/internal/balance/domain"
	bankimportdomain "github.com/smallbiznis/balanza/internal/bankimport/domain"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
	statementdomain "github.com/smallbiznis/balanza/internal/statement/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var unbalanced ledgerdomain.UnbalancedError
	if errors.As(err, &unbalanced) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unbalanced_entry",
			Message: unbalanced.Error(),
			Details: map[string]string{
				"debit_total":  unbalanced.Debits.String(),
				"credit_total": unbalanced.Credits.String(),
			},
		}
	}

	var accountNotFound ledgerdomain.AccountNotFoundError
	if errors.As(err, &accountNotFound) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "account_not_found",
			Message: accountNotFound.Error(),
			Details: map[string]string{"account": accountNotFound.Ref},
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, accountdomain.ErrDuplicateCode),
		errors.Is(err, ledgerdomain.ErrAlreadyReversed),
		errors.Is(err, ledgerdomain.ErrNotPosted):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, accountdomain.ErrInvalidOrganization),
		errors.Is(err, accountdomain.ErrInvalidCode),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidType):
		return true
	case errors.Is(err, ledgerdomain.ErrInvalidOrganization),
		errors.Is(err, ledgerdomain.ErrInvalidDate),
		errors.Is(err, ledgerdomain.ErrInvalidEntryLines),
		errors.Is(err, ledgerdomain.ErrInvalidLineAmount),
		errors.Is(err, ledgerdomain.ErrInvalidLineSides),
		errors.Is(err, ledgerdomain.ErrInvalidAccountRef):
		return true
	case errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidOwnershipForm),
		errors.Is(err, organizationdomain.ErrInvalidOrganization):
		return true
	case errors.Is(err, balancedomain.ErrInvalidOrganization),
		errors.Is(err, balancedomain.ErrInvalidAccount),
		errors.Is(err, balancedomain.ErrInvalidInstant):
		return true
	case errors.Is(err, statementdomain.ErrInvalidOrganization),
		errors.Is(err, statementdomain.ErrInvalidPeriod),
		errors.Is(err, statementdomain.ErrInvalidInstant):
		return true
	case errors.Is(err, auditdomain.ErrInvalidOrganization),
		errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	case errors.Is(err, bankimportdomain.ErrInvalidOrganization),
		errors.Is(err, bankimportdomain.ErrUnknownFormat):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog gives the request logger a stable type/code pair
// without rendering the full payload.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	_ = status
	return payload.Type, firstErrorCode(payload)
}

func firstErrorCode(payload errorPayload) string {
	if len(payload.Errors) > 0 {
		return payload.Errors[0].Code
	}
	return payload.Type
}

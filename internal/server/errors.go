package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
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
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal           = errors.New("internal_error")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
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
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: "request", Code: "invalid_request", Message: "invalid request"},
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

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	var tierErr *pricingdomain.TierValidationError
	if errors.As(err, &tierErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "tier ledger invalid",
			Errors:  tierViolationErrors(tierErr.Violations),
		}
	}

	var fieldErrs bundledomain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  fieldErrorList(fieldErrs),
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, pricingdomain.ErrGuardrailNotAcknowledged):
		return http.StatusConflict, errorPayload{
			Type:    "guardrail_not_acknowledged",
			Message: "tiers price below the guardrail floor; acknowledge to save",
		}
	case errors.Is(err, pricingdomain.ErrDisableNotConfirmed),
		errors.Is(err, bundledomain.ErrDeactivateNotConfirmed):
		return http.StatusConflict, errorPayload{
			Type:    "confirmation_required",
			Message: "this change must be explicitly confirmed",
		}
	case errors.Is(err, pricingdomain.ErrPurchaseDisabled),
		errors.Is(err, tokenledgerdomain.ErrBundleInactive),
		errors.Is(err, tokenledgerdomain.ErrInsufficientFunds):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, memberdomain.ErrEmailExists),
		errors.Is(err, professiondomain.ErrSlugExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: code, Message: code},
			},
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, bundledomain.ErrNotFound),
		errors.Is(err, memberdomain.ErrNotFound),
		errors.Is(err, professiondomain.ErrNotFound),
		errors.Is(err, feedbackdomain.ErrNotFound),
		errors.Is(err, tokenledgerdomain.ErrMemberNotFound),
		errors.Is(err, tokenledgerdomain.ErrBundleNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, pricingdomain.ErrInvalidQuantity),
		errors.Is(err, pricingdomain.ErrBelowMinimum),
		errors.Is(err, pricingdomain.ErrAboveMaximum),
		errors.Is(err, pricingdomain.ErrNoTiers),
		errors.Is(err, pricingdomain.ErrInvalidBounds),
		errors.Is(err, pricingdomain.ErrInvalidBasePrice),
		errors.Is(err, pricingdomain.ErrTooManyTiers),
		errors.Is(err, bundledomain.ErrInvalidID),
		errors.Is(err, memberdomain.ErrInvalidID),
		errors.Is(err, memberdomain.ErrInvalidEmail),
		errors.Is(err, memberdomain.ErrInvalidTier),
		errors.Is(err, memberdomain.ErrInvalidStatus),
		errors.Is(err, memberdomain.ErrNameRequired),
		errors.Is(err, professiondomain.ErrInvalidID),
		errors.Is(err, professiondomain.ErrNameRequired),
		errors.Is(err, professiondomain.ErrCategoryRequired),
		errors.Is(err, professiondomain.ErrInvalidStatus),
		errors.Is(err, feedbackdomain.ErrInvalidID),
		errors.Is(err, feedbackdomain.ErrInvalidRating),
		errors.Is(err, feedbackdomain.ErrTopicRequired),
		errors.Is(err, feedbackdomain.ErrBodyRequired),
		errors.Is(err, feedbackdomain.ErrInvalidStatus),
		errors.Is(err, feedbackdomain.ErrInvalidTransition),
		errors.Is(err, tokenledgerdomain.ErrInvalidID),
		errors.Is(err, tokenledgerdomain.ErrInvalidKind),
		errors.Is(err, tokenledgerdomain.ErrInvalidTokens),
		errors.Is(err, ErrInvalidRequest):
		return true
	default:
		return false
	}
}

func tierViolationErrors(violations []pricingdomain.TierViolation) []ValidationError {
	out := make([]ValidationError, 0, len(violations))
	for _, v := range violations {
		out = append(out, ValidationError{
			Field:   "tiers[" + strconv.Itoa(v.Index) + "]",
			Code:    string(v.Kind),
			Message: v.Message,
		})
	}
	return out
}

func fieldErrorList(errs bundledomain.FieldErrors) []ValidationError {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]ValidationError, 0, len(fields))
	for _, field := range fields {
		out = append(out, ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: errs[field],
		})
	}
	return out
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	return payload.Type, strconv.Itoa(status)
}

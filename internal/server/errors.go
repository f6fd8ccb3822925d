package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/authorization"
	boarddomain "github.com/retentionops/portal/internal/board/domain"
	callsdomain "github.com/retentionops/portal/internal/calls/domain"
	casesdomain "github.com/retentionops/portal/internal/cases/domain"
	"github.com/retentionops/portal/internal/idempotency"
	notesdomain "github.com/retentionops/portal/internal/notes/domain"
	payoutdomain "github.com/retentionops/portal/internal/payout/domain"
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
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Redirect string            `json:"redirect,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

// redirectError carries the route the client should land on instead of
// the one it asked for. The guard middleware produces these.
type redirectError struct {
	status   int
	kind     string
	redirect string
}

func (e *redirectError) Error() string { return e.kind }

func newRedirectError(status int, kind, redirect string) error {
	return &redirectError{status: status, kind: kind, redirect: redirect}
}

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

	var rErr *redirectError
	if errors.As(err, &rErr) {
		return rErr.status, errorPayload{
			Type:     rErr.kind,
			Message:  rErr.kind,
			Redirect: rErr.redirect,
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if field, ok := validationField(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    "invalid_value",
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:     "unauthorized",
			Message:  "unauthorized",
			Redirect: "/login",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, idempotency.ErrDuplicate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, payoutdomain.ErrProcessor),
		errors.Is(err, boarddomain.ErrBoardAPI):
		return http.StatusBadGateway, errorPayload{
			Type:    "external_error",
			Message: "external provider request failed",
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

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationField maps domain validation errors onto the request field
// the client has to fix.
func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "request", true
	case errors.Is(err, casesdomain.ErrInvalidClientName):
		return "client_name", true
	case errors.Is(err, casesdomain.ErrInvalidStatus):
		return "status", true
	case errors.Is(err, casesdomain.ErrInvalidAgent):
		return "agent_id", true
	case errors.Is(err, casesdomain.ErrNoCaseIDs):
		return "case_ids", true
	case errors.Is(err, callsdomain.ErrMissingLead),
		errors.Is(err, notesdomain.ErrMissingLead):
		return "lead_id", true
	case errors.Is(err, callsdomain.ErrMissingAgent),
		errors.Is(err, notesdomain.ErrMissingAgent):
		return "agent_id", true
	case errors.Is(err, callsdomain.ErrInvalidOutcome):
		return "outcome", true
	case errors.Is(err, callsdomain.ErrInvalidDuration):
		return "call_duration", true
	case errors.Is(err, notesdomain.ErrMissingContent):
		return "content", true
	case errors.Is(err, authdomain.ErrInvalidRole):
		return "role", true
	case errors.Is(err, payoutdomain.ErrMissingEmail):
		return "email", true
	case errors.Is(err, boarddomain.ErrMissingBoard):
		return "boardId", true
	case errors.Is(err, boarddomain.ErrMissingItem):
		return "itemId", true
	default:
		return "", false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, casesdomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog tags request log lines with the error class and
// the payload type that went out to the client.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server", payload.Type
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "access", payload.Type
	default:
		return "client", payload.Type
	}
}

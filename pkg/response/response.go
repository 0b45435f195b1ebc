package response

import (
	"errors"
	"log"
	"time"

	"backend/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TraceIDKey is the gin context key under which the trace middleware
// stores the request trace id.
const TraceIDKey = "trace_id"

// Success is the uniform envelope for every successful response.
type Success struct {
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	TraceID   string      `json:"traceId"`
	Timestamp string      `json:"timestamp"`
}

// APIError is the uniform envelope for every error response.
type APIError struct {
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Path      string      `json:"path"`
	TraceID   string      `json:"traceId"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func traceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// OK writes the success envelope with the given status, message and payload.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Success{
		Status:    status,
		Message:   message,
		Data:      data,
		TraceID:   traceID(c),
		Timestamp: now(),
	})
}

func build(c *gin.Context, err error) (int, APIError) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		// Operator-facing detail stays in the logs, never on the wire.
		log.Printf("internal error on %s: %v", c.Request.URL.Path, err)
	}
	status := appErr.Kind.HTTPStatus()
	return status, APIError{
		Status:    status,
		Error:     appErr.Kind.Label(),
		Code:      appErr.Kind.Code(),
		Message:   appErr.Message,
		Path:      c.Request.URL.Path,
		TraceID:   traceID(c),
		Details:   appErr.Details,
		Timestamp: now(),
	}
}

// Fail translates a service error into the error envelope.
func Fail(c *gin.Context, err error) {
	status, body := build(c, err)
	c.JSON(status, body)
}

// Abort writes the error envelope and aborts the handler chain. For middleware.
func Abort(c *gin.Context, err error) {
	status, body := build(c, err)
	c.AbortWithStatusJSON(status, body)
}

// BindError converts a gin binding failure into a validation error,
// collecting per-field messages when the cause is a validator error set.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = "failed on '" + fe.Tag() + "' validation"
		}
		return apperr.Validation("invalid request payload").WithDetails(details)
	}
	return apperr.BadRequest("invalid request payload")
}

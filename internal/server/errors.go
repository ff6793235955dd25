package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

// ErrorDetail names one offending field.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorResponse struct {
	Error     string        `json:"error"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Path      string        `json:"path"`
	Details   []ErrorDetail `json:"details,omitempty"`
}

// BadRequestError reports a body or query that could not be decoded at all.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// ValidationErrors carries every failed binding rule of one request.
type ValidationErrors struct {
	Details []ErrorDetail
}

func (v *ValidationErrors) Error() string { return "validation error" }

var ErrRouteNotFound = apperr.NotFound("route")

func ErrorHandlingMiddleware(clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, resp := mapError(lastErr.Err)
		resp.Timestamp = clk.Now()
		resp.Path = c.Request.URL.Path
		c.AbortWithStatusJSON(status, resp)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	var (
		badReq *BadRequestError
		vErrs  *ValidationErrors
		vErr   *apperr.ValidationError
		nErr   *apperr.NotFoundError
		cErr   *apperr.ConflictError
	)

	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: badReq.Message,
		}
	case errors.As(err, &vErrs):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_error",
			Message: "request validation failed",
			Details: vErrs.Details,
		}
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_error",
			Message: vErr.Error(),
			Details: []ErrorDetail{{Field: vErr.Field, Message: vErr.Message, Type: vErr.Type}},
		}
	case errors.As(err, &nErr):
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: nErr.Error(),
		}
	case errors.As(err, &cErr):
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: cErr.Error(),
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) string {
	var badReq *BadRequestError
	var vErrs *ValidationErrors
	switch {
	case errors.As(err, &badReq):
		return "bad_request"
	case errors.As(err, &vErrs):
		return "validation_error"
	}
	if kind := apperr.Kind(err); kind != "" {
		return kind
	}
	return "internal_error"
}

var registerTagName sync.Once

// useJSONFieldNames makes validator report the json name of a field.
func useJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body and runs the binding rules. Decoding failures
// are bad requests; rule failures become field details.
func bindJSON(c *gin.Context, out any) error {
	err := c.ShouldBindJSON(out)
	if err == nil {
		return nil
	}
	return translateBindError(err)
}

func translateBindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]ErrorDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, ErrorDetail{
				Field:   fieldPath(fe),
				Message: ruleMessage(fe),
				Type:    fe.Tag(),
			})
		}
		return &ValidationErrors{Details: details}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		return &ValidationErrors{Details: []ErrorDetail{{
			Field:   field,
			Message: "must be a " + typeErr.Type.String(),
			Type:    "type_error",
		}}}
	}

	if errors.Is(err, io.EOF) {
		return &BadRequestError{Message: "request body is required"}
	}
	return &BadRequestError{Message: "malformed JSON body"}
}

// fieldPath drops request struct names from the namespace, including
// embedded ones, e.g. createInvoiceRequest.items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, part := range parts {
		if strings.HasSuffix(part, "Request") {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " rule"
	}
}

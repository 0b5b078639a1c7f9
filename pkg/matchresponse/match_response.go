// Package matchresponse writes the JSON envelope shared by every scorebook endpoint:
// {"ok", "status", "message", "data"} on success and {"ok": false, "status", "message",
// "code", "kind", "errors"} on failure.
package matchresponse

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const defaultPageSize = 10

type successBody struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorBody struct {
	OK      bool              `json:"ok"`
	Status  string            `json:"status"` // "error" for client mistakes, "fail" for 5xx
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Kind    string            `json:"kind,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type pageBody struct {
	OK         bool   `json:"ok"`
	Status     string `json:"status"`
	Data       any    `json:"data"`
	Pagination page   `json:"pagination"`
}

type page struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// ErrorResponse aborts the request with message.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	status := "error"
	if statusCode >= http.StatusInternalServerError {
		status = "fail"
	}
	c.AbortWithStatusJSON(statusCode, errorBody{Status: status, Message: message, Code: statusCode})
}

// ValidationErrorResponse reports a failed ShouldBind*. Validator failures are listed per
// field; anything else (malformed JSON, wrong types) is reported as a bad payload.
func ValidationErrorResponse(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Status:  "error",
		Message: "Validation failed",
		Code:    http.StatusBadRequest,
		Errors:  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
}

// SuccessResponse wraps data. A gin.H carrying a string "message" has it lifted to the
// envelope; the remaining keys, if any, become the data.
func SuccessResponse(c *gin.Context, statusCode int, data any) {
	body := successBody{OK: true, Status: "success", Data: data}
	if h, ok := data.(gin.H); ok {
		if msg, ok := h["message"].(string); ok {
			body.Message = msg
			body.Data = nil
			if len(h) > 1 {
				rest := make(gin.H, len(h)-1)
				for k, v := range h {
					if k != "message" {
						rest[k] = v
					}
				}
				body.Data = rest
			}
		}
	}
	c.JSON(statusCode, body)
}

// PaginatedResponse writes one page of items with its position in the full result.
func PaginatedResponse(c *gin.Context, statusCode int, items any, currentPage, pageSize int, totalItems int64) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	p := page{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasNextPage: currentPage < totalPages,
		HasPrevPage: currentPage > 1 && currentPage <= totalPages,
	}
	if p.HasNextPage {
		next := currentPage + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := currentPage - 1
		p.PreviousPage = &prev
	}
	c.JSON(statusCode, pageBody{OK: true, Status: "success", Data: items, Pagination: p})
}

// StatusForKind maps a scoring error kind to its HTTP status.
func StatusForKind(kind scoring.ErrorKind) int {
	switch kind {
	case scoring.KindInvalidState:
		return http.StatusConflict
	case scoring.KindUnknownPlayer:
		return http.StatusUnprocessableEntity
	case scoring.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ScoringErrorResponse reports err with the status of its scoring kind. The message of a
// scoring error is shown verbatim; anything else is logged and hidden behind a generic 500.
func ScoringErrorResponse(c *gin.Context, err error) {
	kind := scoring.KindOf(err)
	code := StatusForKind(kind)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		ErrorResponse(c, code, "Internal server error")
		return
	}
	c.AbortWithStatusJSON(code, errorBody{
		Status:  "error",
		Message: err.Error(),
		Code:    code,
		Kind:    string(kind),
	})
}

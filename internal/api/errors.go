package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorCode is the machine-readable part of an error body.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"

	// settings and function input
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidJSON   ErrorCode = "INVALID_JSON"
	ErrCodeInvalidShopID ErrorCode = "INVALID_SHOP_ID"
)

// ErrorResponse is the body of every non-2xx response.
// Fields maps request fields (products, percentOff, shopId) to the message for the admin UI.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Code      ErrorCode         `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func NewErrorResponse(statusCode int, code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{Error: http.StatusText(statusCode), Message: message, Code: code}
}

func (e *ErrorResponse) WithFields(fields map[string]string) *ErrorResponse {
	e.Fields = fields
	return e
}

func (e *ErrorResponse) WithRequestID(requestID string) *ErrorResponse {
	e.RequestID = requestID
	return e
}

// writeErrorResponse stamps the chi request id and writes the body.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errResp *ErrorResponse) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		errResp.RequestID = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errResp)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code ErrorCode, message string) {
	writeErrorResponse(w, r, status, NewErrorResponse(status, code, message))
}

// ValidationError answers 400 with per-field messages.
func ValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	writeErrorResponse(w, r, http.StatusBadRequest,
		NewErrorResponse(http.StatusBadRequest, ErrCodeValidation, message).WithFields(fields))
}

func BadRequestError(w http.ResponseWriter, r *http.Request, code ErrorCode, message string) {
	respondError(w, r, http.StatusBadRequest, code, message)
}

func UnauthorizedError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func ForbiddenError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusForbidden, ErrCodeForbidden, message)
}

func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, message)
}

func NotFoundError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, message)
}

// RateLimitedError is used by the evaluate route limiter.
func RateLimitedError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, message)
}

// RequestTooLargeError is used when a body exceeds maxBodyBytes.
func RequestTooLargeError(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, message)
}

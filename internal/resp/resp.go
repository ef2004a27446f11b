// Package resp defines the unified JSON response envelope used by all
// HTTP handlers. Every response carries a business code, a message and the
// request ID so clients and logs can be correlated.
package resp

import (
	"encoding/json"
	"net/http"
)

// Code is a business-level result code, independent of the HTTP status.
type Code int

const (
	CodeOK              Code = 0
	CodeInvalidParam    Code = 1001
	CodeUnauthorized    Code = 1002
	CodeForbidden       Code = 1003
	CodeNotFound        Code = 1004
	CodeConflict        Code = 1005
	CodeTooManyRequests Code = 1006
	CodeTimeout         Code = 1008
	CodeInternalError   Code = 2000
)

// Body is the wire format of every API response.
type Body struct {
	Code      Code        `json:"code"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// OK writes a 200 response with the given payload.
func OK(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Created writes a 201 response with the given payload.
func Created(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusCreated, &Body{
		Code:      CodeOK,
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Error writes an error response with the given HTTP status and business code.
func Error(w http.ResponseWriter, status int, code Code, message, requestID, traceID string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// ErrorWithData writes an error response carrying a structured payload,
// e.g. field-level validation errors or cart consistency issues.
func ErrorWithData(w http.ResponseWriter, status int, code Code, message string, data interface{}, requestID, traceID string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// HTTPStatusFromCode maps a business code to its default HTTP status.
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

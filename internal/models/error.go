package models

import "errors"

// Domain errors. Controllers map these to HTTP status codes: validation
// errors to 400, missing resources to 404, everything else to 500.
var (
	ErrInvalidOrder      = errors.New("invalid order: missing table number or empty cart")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrMenuNotConfigured = errors.New("no menu variant configured for this weekday")
	ErrVariantNotFound   = errors.New("menu variant not found")
	ErrNoPrinterFound    = errors.New("no connected serial printer found")
	ErrPortNotOpen       = errors.New("serial port is not open")
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrNotFound         = "NOT_FOUND"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Domain-specific errors
	ErrCodeInvalidOrder  = "ORDER_INVALID_DATA"
	ErrCodeOrderNotFound = "ORDER_NOT_FOUND"
	ErrCodeMenuConfig    = "MENU_NOT_CONFIGURED"
	ErrCodePrinter       = "PRINTER_ERROR"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents network/HTTP failures while fetching a search page
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypePriceParse represents malformed price text on a listing
	ErrorTypePriceParse ErrorType = "price_parse"
	// ErrorTypeNoData represents an empty result set when plotting
	ErrorTypeNoData ErrorType = "no_data"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// TrackerError represents a tracker-specific error
type TrackerError struct {
	Type    ErrorType
	Keyword string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Keyword, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Keyword, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error should abort the whole run.
// Only configuration errors are fatal; fetch and price-parse failures
// are contained to a single keyword or listing.
func (e *TrackerError) IsFatal() bool {
	return e.Type == ErrorTypeConfiguration
}

// IsType reports whether err is a TrackerError of the given type
func IsType(err error, errType ErrorType) bool {
	var te *TrackerError
	if stderrors.As(err, &te) {
		return te.Type == errType
	}
	return false
}

// New creates a new TrackerError
func New(errType ErrorType, keyword, message string, err error) *TrackerError {
	return &TrackerError{
		Type:    errType,
		Keyword: keyword,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(keyword, message string, err error) *TrackerError {
	return New(ErrorTypeFetch, keyword, message, err)
}

// NewPriceParse creates a new price-parse error
func NewPriceParse(keyword, priceText string, err error) *TrackerError {
	message := fmt.Sprintf("unparseable price %q", priceText)
	return New(ErrorTypePriceParse, keyword, message, err)
}

// NewNoData creates a new no-data error for an empty plot filter
func NewNoData(keyword string) *TrackerError {
	return New(ErrorTypeNoData, keyword, "no history records match", nil)
}

// NewValidation creates a new validation error
func NewValidation(keyword, message string) *TrackerError {
	return New(ErrorTypeValidation, keyword, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *TrackerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

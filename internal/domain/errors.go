package domain

import (
	"errors"
	"fmt"
)

// Query validation and response errors.
var (
	ErrInvalidAPIKey      = errors.New("api key missing or shorter than 10 characters")
	ErrEmptyQuery         = errors.New("query is empty")
	ErrCSVNotLoaded       = errors.New("csv data not loaded")
	ErrUnexpectedResponse = errors.New("unexpected response format")
)

// APIError is a non-2xx response from the model API.
type APIError struct {
	StatusCode int
	Details    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error! Status: %d, Details: %s", e.StatusCode, e.Details)
}

package query

import (
	"errors"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
)

// UserMessage returns the inline error text shown for an Ask failure.
func UserMessage(err error) string {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return "Please enter a valid DeepSeek API key (check length and format)."
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Please enter a query."
	case errors.Is(err, domain.ErrCSVNotLoaded):
		return "CSV data not loaded. Please ensure hk_birds.csv is accessible."
	case errors.As(err, &apiErr):
		return "Error querying DeepSeek: " + apiErr.Error()
	case errors.Is(err, domain.ErrUnexpectedResponse):
		return "Unexpected response format from DeepSeek API."
	default:
		return "Error querying DeepSeek: " + err.Error()
	}
}

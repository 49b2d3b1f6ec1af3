package domain

import (
	"strings"
	"unicode/utf8"
)

// MinAPIKeyLength is the shortest API key accepted. The format is otherwise unchecked.
const MinAPIKeyLength = 10

// ValidateQuery checks the user-supplied inputs of a question in the order
// they are reported: key first, then query. Both are trimmed before checking.
func ValidateQuery(apiKey, query string) error {
	if utf8.RuneCountInString(strings.TrimSpace(apiKey)) < MinAPIKeyLength {
		return ErrInvalidAPIKey
	}
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

package application

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPromptLength caps generator prompts
const MaxPromptLength = 8000

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateMaxLength checks that value has at most max runes
func ValidateMaxLength(fieldName, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is too long (%d > %d characters)", formatFieldName(fieldName), n, max),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "revisionID" -> "revision ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"prompt":     "prompt",
		"revisionID": "revision ID",
		"workspace":  "workspace",
	}
	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

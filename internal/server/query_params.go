package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalBool(field, value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return false, apperr.Invalid(field, "must be true or false")
	}
	return parsed, nil
}

// parseOptionalDate accepts YYYY-MM-DD or RFC3339 and returns the UTC
// calendar date. Nil or blank input is absent.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return nil, apperr.Invalid(field, "must be a date in YYYY-MM-DD format")
		}
	}
	parsed = parsed.UTC()
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &date, nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

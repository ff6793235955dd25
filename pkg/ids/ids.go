// Package ids parses client supplied snowflake identifiers.
package ids

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

// Parse returns a ValidationError naming field when raw is not a snowflake id.
func Parse(field, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(field, "must be a valid identifier")
	}
	return id, nil
}

// ParseOptional treats an empty string as absent.
func ParseOptional(field, raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := Parse(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

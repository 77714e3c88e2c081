package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	dErrors "estate-ledger/pkg/domain-errors"
)

// Field length limits, matching the column widths in migrations.
const (
	MaxNameLength        = 255
	MaxTitleLength       = 255
	MaxHouseNumberLength = 100
	MaxCategoryLength    = 100
	MaxDescriptionLength = 2000
	MaxUsernameLength    = 150
	MaxEmailLength       = 255
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt input limit
)

// Errors accumulates per-field messages keyed by wire name. The first message for a field wins.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// CheckLength records a failure when value exceeds max runes.
func (e Errors) CheckLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// Required records a failure for a blank value.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
	}
}

// Err returns nil when nothing was recorded, else a CodeValidation error
// whose message names the first field alphabetically.
func (e Errors) Err(msg string) error {
	if len(e) == 0 {
		return nil
	}
	if msg == "" {
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg = fmt.Sprintf("%s %s", keys[0], e[keys[0]])
	}
	return dErrors.Validation(msg, map[string]string(e))
}

// CheckEmail records a failure when a non-empty value is not an email address.
func (e Errors) CheckEmail(field, value string) {
	if value == "" {
		return
	}
	if defaultValidator.Var(value, "email") != nil {
		e.Add(field, "must be a valid email address")
	}
}

package domain

import (
	"strings"
	"time"
)

// NormalizeDateTime parses value as ДД.ММ.ГГГГ ЧЧ:ММ in loc and requires it to
// be strictly after now. On success the value is reformatted into the
// canonical layout.
func NormalizeDateTime(value string, loc *time.Location, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{Kind: MissingField, Field: "date/datetime"}
	}
	parsed, err := time.ParseInLocation(DateTimeLayout, value, loc)
	if err != nil {
		return "", &ValidationError{Kind: InvalidFormat, Field: "date"}
	}
	if !parsed.After(now.In(loc)) {
		return "", &ValidationError{Kind: PastDateTime, Field: "date"}
	}
	return parsed.Format(DateTimeLayout), nil
}

// Validate checks the completeness invariant and normalizes the date/time. It
// does no I/O and is idempotent: validating an already-normalized draft
// returns it unchanged.
func Validate(d BookingDraft, loc *time.Location, now time.Time) (BookingDraft, error) {
	if d.Name == "" {
		return d, &ValidationError{Kind: MissingField, Field: "name"}
	}
	if d.Phone == "" {
		return d, &ValidationError{Kind: MissingField, Field: "phone"}
	}
	if d.Service == "" {
		return d, &ValidationError{Kind: MissingField, Field: "service"}
	}
	normalized, err := NormalizeDateTime(d.DateTime, loc, now)
	if err != nil {
		return d, err
	}
	d.DateTime = normalized
	return d, nil
}

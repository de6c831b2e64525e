package utils

import (
	"errors"
	"regexp"
	"time"
)

// GTFS ids are alphanumeric with underscore, hyphen, dot and colon.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ValidateID validates that a stop or trip id is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateRadius validates the walking radius used to generate transfers
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	if radius > 5000 {
		return errors.New("radius too large (max 5000 meters)")
	}

	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// ParseServiceDate parses a YYYY-MM-DD date in loc. An empty string yields
// today's date in loc.
func ParseServiceDate(date string, loc *time.Location) (time.Time, error) {
	if err := ValidateDate(date); err != nil {
		return time.Time{}, err
	}
	if date == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation("2006-01-02", date, loc)
}

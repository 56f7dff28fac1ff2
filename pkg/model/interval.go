package model

import (
	"fmt"
	"regexp"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// TimeInterval is a half-open range [From, To) on a single calendar day.
// Date is canonical YYYY-MM-DD and From/To are zero-padded HH:MM, so
// plain string comparison orders both correctly.
type TimeInterval struct {
	Date string `json:"date" bson:"date"`
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// NewTimeInterval builds an interval, rejecting malformed dates, malformed
// clock values, and ranges where From is not strictly before To.
func NewTimeInterval(date, from, to string) (TimeInterval, error) {
	iv := TimeInterval{Date: date, From: from, To: to}
	if err := iv.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return iv, nil
}

func (iv TimeInterval) Validate() error {
	if !dateRe.MatchString(iv.Date) {
		return fmt.Errorf("date must be in YYYY-MM-DD format, got %q", iv.Date)
	}
	if !clockRe.MatchString(iv.From) {
		return fmt.Errorf("from must be in HH:MM format, got %q", iv.From)
	}
	if !clockRe.MatchString(iv.To) {
		return fmt.Errorf("to must be in HH:MM format, got %q", iv.To)
	}
	if iv.From >= iv.To {
		return fmt.Errorf("from (%s) must be before to (%s)", iv.From, iv.To)
	}
	return nil
}

// ContainsStrict reports whether the clock value t lies strictly inside
// the interval, excluding both endpoints.
func (iv TimeInterval) ContainsStrict(t string) bool {
	return iv.From < t && t < iv.To
}

func (iv TimeInterval) String() string {
	return fmt.Sprintf("%s [%s, %s)", iv.Date, iv.From, iv.To)
}

// IsValidDate reports whether s is a canonical YYYY-MM-DD date.
func IsValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// IsValidClock reports whether s is a zero-padded HH:MM clock value.
func IsValidClock(s string) bool {
	return clockRe.MatchString(s)
}

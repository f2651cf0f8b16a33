package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
//
// Storage comes from datatypes.Date: a DATE column, scanned and written as
// time.Time. Only the JSON shape is overridden so dates travel as
// "YYYY-MM-DD" instead of full RFC 3339 timestamps.
type Date struct {
	datatypes.Date
}

// NewDate truncates t to its calendar day at midnight UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

// ParseDate parses "YYYY-MM-DD". A full RFC 3339 timestamp is also accepted
// and cut down to its date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q must use the format YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

// Today returns the current calendar day in the server's local time zone.
func Today(now time.Time) Date {
	return NewDate(now.In(time.Local))
}

// Time returns the stored instant.
func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

func (d Date) IsZero() bool {
	return d.Time().IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Before reports whether d is an earlier calendar day than other. Rows
// scanned back from the database may carry a time of day, so both sides
// are cut to their day first.
func (d Date) Before(other Date) bool {
	return NewDate(d.Time()).Time().Before(NewDate(other.Time()).Time())
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string in the format YYYY-MM-DD")
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

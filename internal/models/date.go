package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// Timestamps above this are taken as milliseconds
const msTimestampThreshold = 2e10

// Range of timestamps whose date has a four digit year, 0001-01-01 to
// 9999-12-31
const (
	minUnixDate = -62135596800
	maxUnixDate = 253402300799
)

var errInvalidDate = errors.New("invalid date format")

// Date is a calendar date without time of day. It is stored and rendered as
// YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date y-m-d
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errInvalidDate
	}
	return Date{t}, nil
}

// dateFromUnix converts a Unix timestamp to its UTC calendar date
func dateFromUnix(ts float64) (Date, error) {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return Date{}, errInvalidDate
	}
	if math.Abs(ts) > msTimestampThreshold {
		ts /= 1000
	}
	if ts < minUnixDate || ts > maxUnixDate {
		return Date{}, errInvalidDate
	}
	return DateOf(time.Unix(int64(ts), 0).UTC()), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a YYYY-MM-DD string, a Unix timestamp number or a
// Unix timestamp given as a numeric string.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidDate
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errInvalidDate
		}
		if ts, err := strconv.ParseFloat(s, 64); err == nil {
			parsed, err := dateFromUnix(ts)
			if err != nil {
				return err
			}
			*d = parsed
			return nil
		}
		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	var ts float64
	if err := json.Unmarshal(data, &ts); err != nil {
		return errInvalidDate
	}
	parsed, err := dateFromUnix(ts)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AgeOn returns the whole years elapsed from birth to the date of now. A
// birthday not yet reached in now's year is not counted.
func AgeOn(birth Date, now time.Time) int {
	y, m, d := now.Date()
	age := y - birth.Year()
	if m < birth.Month() || (m == birth.Month() && d < birth.Day()) {
		age--
	}
	return age
}

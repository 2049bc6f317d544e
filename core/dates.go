package core

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
)

// Dates and times of day are naive: no timezone is attached to a class slot.

var (
	NowFunc = time.Now // mockable

	errInvalidClock = errors.New("invalid time, expected HH:MM or HH:MM:SS")
	errInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

// Today returns the current local civil date.
func Today() civil.Date {
	return civil.DateOf(NowFunc())
}

// Weekday returns the day of the week of d, 0=Monday..6=Sunday.
func Weekday(d civil.Date) int {
	return (int(d.In(time.UTC).Weekday()) + 6) % 7
}

// WeekdayName returns the full english weekday name of d; eg. Monday.
func WeekdayName(d civil.Date) string {
	return d.In(time.UTC).Format("Monday")
}

// WeekdayAbbr returns the abbreviated english weekday name of d; eg. Mon.
func WeekdayAbbr(d civil.Date) string {
	return d.In(time.UTC).Format("Mon")
}

func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(CleanString(s))
	if err != nil {
		return civil.Date{}, errInvalidDate
	}
	return d, nil
}

// ParseClock parses a time of day in 24-hour HH:MM or HH:MM:SS form.
func ParseClock(s string) (civil.Time, error) {
	s = CleanString(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := civil.ParseTime(s)
	if err != nil || !t.IsValid() {
		return civil.Time{}, errInvalidClock
	}
	return t, nil
}

// CompareClock returns -1, 0 or +1 depending on whether a is before, equal to or after b.
func CompareClock(a, b civil.Time) int {
	an, bn := clockNanos(a), clockNanos(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

// CompareDate returns -1, 0 or +1 depending on whether a is before, equal to or after b.
func CompareDate(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// MaxDate returns the later of a and b.
func MaxDate(a, b civil.Date) civil.Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b civil.Date) civil.Date {
	if a.Before(b) {
		return a
	}
	return b
}

// FormatClock12 formats t on a 12-hour clock; eg. 09:00 AM.
func FormatClock12(t civil.Time) string {
	return time.Date(2000, time.January, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format("03:04 PM")
}

func clockNanos(t civil.Time) int64 {
	return ((int64(t.Hour)*60+int64(t.Minute))*60+int64(t.Second))*int64(time.Second) + int64(t.Nanosecond)
}

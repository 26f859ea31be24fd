// Package calendar converts reference dates into the days shown by the week and
// month views and normalizes dates to YYYY-MM-DD keys.
//
// All comparisons are made on civil days: a time's own Year/Month/Day in its own
// location. Nothing here converts to UTC.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidKey   = errors.New("invalid date key")
	ErrInvalidMonth = errors.New("invalid month key")
)

// DateKey formats d as YYYY-MM-DD using d's own calendar fields.
func DateKey(d time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}

// MonthKey formats d as YYYY-MM.
func MonthKey(d time.Time) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// ParseDateKey reads year, month and day from key and returns midnight of that
// day in loc. Days that do not exist (2023-02-29) are rejected.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, ErrInvalidKey
	}
	year, month, err := parseYearMonth(parts[0], parts[1])
	if err != nil {
		return time.Time{}, ErrInvalidKey
	}
	if !digits(parts[2]) {
		return time.Time{}, ErrInvalidKey
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidKey
	}
	if loc == nil {
		loc = time.Local
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day {
		return time.Time{}, ErrInvalidKey
	}
	return d, nil
}

// ParseMonthKey reads a YYYY-MM key and returns the first day of that month in loc.
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return time.Time{}, ErrInvalidMonth
	}
	year, month, err := parseYearMonth(parts[0], parts[1])
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc), nil
}

func parseYearMonth(y, m string) (int, int, error) {
	if !digits(y) || !digits(m) {
		return 0, 0, ErrInvalidKey
	}
	year, err := strconv.Atoi(y)
	if err != nil || year < 1 {
		return 0, 0, ErrInvalidKey
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidKey
	}
	return year, month, nil
}

// digits reports whether s is made of ASCII digits only; strconv.Atoi alone
// also takes a sign.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func StartOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// WeekDays returns the seven days of ref's week, Monday first.
func WeekDays(ref time.Time) []time.Time {
	start := startOfWeek(ref)
	days := make([]time.Time, 0, 7)
	for i := range 7 {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// MonthDays returns every day of ref's month in ascending order.
func MonthDays(ref time.Time) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1).Day()
	days := make([]time.Time, 0, last)
	for i := range last {
		days = append(days, first.AddDate(0, 0, i))
	}
	return days
}

// MonthGrid returns the whole Monday-first weeks that cover ref's month,
// including the leading and trailing days of the neighbouring months.
func MonthGrid(ref time.Time) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)
	start := startOfWeek(first)
	end := startOfWeek(last).AddDate(0, 0, 6)
	days := make([]time.Time, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func startOfWeek(d time.Time) time.Time {
	// time.Weekday is Sunday-based; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return StartOfDay(d).AddDate(0, 0, -offset)
}

func SameDay(a, b time.Time) bool {
	return civilDay(a) == civilDay(b)
}

func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// IsTodayAt reports whether d falls on the same civil day as now.
func IsTodayAt(d, now time.Time) bool {
	return civilDay(d) == civilDay(now)
}

// IsFutureAt reports whether d's civil day is strictly after now's.
func IsFutureAt(d, now time.Time) bool {
	return civilDay(d) > civilDay(now)
}

func IsToday(d time.Time) bool {
	return IsTodayAt(d, time.Now().In(d.Location()))
}

func IsFuture(d time.Time) bool {
	return IsFutureAt(d, time.Now().In(d.Location()))
}

// civilDay numbers days so that civil dates in different locations compare
// by their calendar fields only.
func civilDay(d time.Time) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DaysBetween returns the number of civil days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(civilDay(b) - civilDay(a))
}

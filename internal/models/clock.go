package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var (
	ErrInvalidWindow = errors.New("scheduled start time must be before end time")
	ErrPartialWindow = errors.New("scheduled start and end times must be given together")
)

// ClockTime is a wall-clock time of day in HH:MM form.
type ClockTime string

// ParseClockTime accepts H:MM or HH:MM and returns the zero-padded form, so
// stored times sort correctly as strings.
func ParseClockTime(value string) (ClockTime, error) {
	parsed, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("invalid clock time %q, expected HH:MM", value)
	}
	return ClockTime(parsed.Format(ClockLayout)), nil
}

// ParseWindow parses an optional start/end pair. ok is false when both are
// blank; giving only one of them is an error.
func ParseWindow(start, end string) (startTime, endTime ClockTime, ok bool, err error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return "", "", false, nil
	}
	if start == "" || end == "" {
		return "", "", false, ErrPartialWindow
	}

	if startTime, err = ParseClockTime(start); err != nil {
		return "", "", false, err
	}
	if endTime, err = ParseClockTime(end); err != nil {
		return "", "", false, err
	}
	if err := ValidateWindow(startTime, endTime); err != nil {
		return "", "", false, err
	}
	return startTime, endTime, true, nil
}

func (c ClockTime) Validate() error {
	if _, err := time.Parse(ClockLayout, string(c)); err != nil {
		return fmt.Errorf("invalid clock time %q, expected HH:MM", string(c))
	}
	return nil
}

// Minutes returns minutes since midnight, or -1 for a malformed value.
func (c ClockTime) Minutes() int {
	parsed, err := time.Parse(ClockLayout, string(c))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

func (c ClockTime) String() string {
	return string(c)
}

// ValidateWindow enforces start < end for a same-day window.
func ValidateWindow(start, end ClockTime) error {
	if err := start.Validate(); err != nil {
		return err
	}
	if err := end.Validate(); err != nil {
		return err
	}
	if start.Minutes() >= end.Minutes() {
		return ErrInvalidWindow
	}
	return nil
}

// WindowsOverlap treats windows as half-open, so 11:00-13:00 and 13:00-15:00
// do not overlap.
func WindowsOverlap(startA, endA, startB, endB ClockTime) bool {
	return startA.Minutes() < endB.Minutes() && startB.Minutes() < endA.Minutes()
}

// WindowMinutes returns the length of a window in minutes.
func WindowMinutes(start, end ClockTime) int {
	return end.Minutes() - start.Minutes()
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween counts calendar days from -> to; negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package domain

import (
	"errors"
	"time"
)

// ErrInvalidDuration is returned when a schedule is requested for a
// non-positive number of days.
var ErrInvalidDuration = errors.New("durationDays must be greater than zero")

// Schedule is the day-date sequence derived from a departure date and a
// duration. Day 1 falls on the departure date; the return date is the last
// day's date, so ReturnDate >= departure always holds.
type Schedule struct {
	DayDates   []time.Time
	ReturnDate time.Time
}

// ComputeSchedule maps a departure date and duration into per-day dates and a
// return date. Dates are normalized to midnight UTC (date-only semantics).
func ComputeSchedule(departure time.Time, durationDays int) (Schedule, error) {
	if durationDays <= 0 {
		return Schedule{}, ErrInvalidDuration
	}
	start := DateOnly(departure)
	dates := make([]time.Time, durationDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return Schedule{DayDates: dates, ReturnDate: dates[durationDays-1]}, nil
}

// DateOnly truncates a time to midnight UTC.
func DateOnly(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}

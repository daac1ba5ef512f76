// utils/dates.go
package utils

import (
	"time"

	"agenda-backend/models"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Today is the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) models.Date {
	return models.DateOf(BeginningOfDay(now.In(loc)))
}

// Tomorrow is the calendar date after now in loc.
func Tomorrow(now time.Time, loc *time.Location) models.Date {
	return models.DateOf(BeginningOfDay(now.In(loc)).AddDate(0, 0, 1))
}

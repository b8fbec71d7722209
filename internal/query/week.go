package query

import (
	"fmt"
	"time"
)

// WeekLabel numbers weeks with the household's scheme, not ISO 8601:
// week 1 runs from January 1st through the first Sunday of the year,
// inclusive; later weeks run Monday through Sunday. When January 1st is
// itself a Sunday, week 1 is that single day.
func WeekLabel(t time.Time) string {
	year := t.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	daysSinceJan1 := int(dayOf(t).Sub(jan1).Hours() / 24)

	// Monday=0 .. Sunday=6 indexing for the boundary arithmetic.
	jan1Weekday := (int(jan1.Weekday()) + 6) % 7
	daysToFirstSunday := (6 - jan1Weekday) % 7

	week := 1
	if daysSinceJan1 > daysToFirstSunday {
		week = 2 + (daysSinceJan1-daysToFirstSunday-1)/7
	}
	return fmt.Sprintf("%d-S%02d", year, week)
}

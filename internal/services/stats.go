package services

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// percentage converts a correct/total pair to a percentage rounded to one
// decimal place. A zero total yields zero.
func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(correct) / float64(total) * 100
	return math.Round(p*10) / 10
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// today and yesterday as YYYY-MM-DD in local time, matching the dates
// stamped on practice records.
func practiceDates(now time.Time) (today, yesterday string) {
	return now.Format(dateLayout), now.AddDate(0, 0, -1).Format(dateLayout)
}

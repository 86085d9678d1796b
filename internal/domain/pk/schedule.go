package pk

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseTimeOfDay converts an "HH:MM" clock string into fractional hours
// (e.g. "09:30" → 9.5). Hours run 0-23 and minutes 0-59.
func parseTimeOfDay(timeOfDay string) (float64, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", timeOfDay)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in time of day %q: %w", timeOfDay, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in time of day %q: %w", timeOfDay, err)
	}

	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time of day %q: hour out of range", timeOfDay)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q: minute out of range", timeOfDay)
	}

	return float64(hour) + float64(minute)/60, nil
}

// expandDoseTimes converts a daily time-of-day schedule into absolute-hour
// dose events spanning numberOfDays calendar days: each entry is replicated
// at dayIndex*24 + timeOfDayHours for day indices 0..numberOfDays-1.
//
// The caller supplies timesOfDay already in chronological order within the
// day; entries are not re-sorted, so the returned events are ascending
// exactly when the input is.
func expandDoseTimes(timesOfDay []string, numberOfDays int) ([]DoseEvent, error) {
	hours := make([]float64, 0, len(timesOfDay))
	for _, timeOfDay := range timesOfDay {
		h, err := parseTimeOfDay(timeOfDay)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}

	events := make([]DoseEvent, 0, numberOfDays*len(hours))
	for day := 0; day < numberOfDays; day++ {
		for _, h := range hours {
			events = append(events, DoseEvent(float64(day)*HoursPerDay+h))
		}
	}
	return events, nil
}

// daysToCover returns the number of calendar days of dose events needed to
// cover a simulation window ending at endHours: ceil(end/24) plus a margin
// so a dose late on the final day still shapes the curve's tail.
func daysToCover(endHours float64, marginDays int) int {
	return int(math.Ceil(endHours/HoursPerDay)) + marginDays
}

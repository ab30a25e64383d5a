// Package forecast reshapes raw provider time series into the widget's
// display model.
//
// Hourly series are indexed by absolute hour offset from local midnight of
// day 0, daily series by day offset. Missing values (JSON null or an index
// past the end of a series) are read as 0. That is a simplification carried
// over from the dashboard's original behaviour: a gap in the provider data
// shows up as a zero reading rather than an empty cell.
package forecast

import (
	"fmt"
	"iter"
	"math"
)

const (
	hoursPerDay      = 24
	hourlyWindowSize = 24
	dailyWindowSize  = 7
)

// HourlyIndices yields (hourOfDay, index) for the 24 hours following
// currentHour, wrapping into the next day. Points whose index falls outside a
// series of the given length are dropped, so fewer than 24 points are
// produced when the series is short.
func HourlyIndices(currentHour, length int) iter.Seq2[int, int] {
	currentHour = ((currentHour % hoursPerDay) + hoursPerDay) % hoursPerDay

	return func(yield func(int, int) bool) {
		for i := 1; i <= hourlyWindowSize; i++ {
			hour := (currentHour + i) % hoursPerDay
			dayOffset := (currentHour + i) / hoursPerDay
			index := hour + dayOffset*hoursPerDay

			if index >= length {
				continue
			}
			if !yield(hour, index) {
				return
			}
		}
	}
}

// HourlyWindow yields ("HH:00", value) pairs for the rolling 24 hour window
// over a single series.
func HourlyWindow[T any](series []T, currentHour int) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for hour, index := range HourlyIndices(currentHour, len(series)) {
			if !yield(HourLabel(hour), series[index]) {
				return
			}
		}
	}
}

// DailyWindow returns the first seven days of a daily series
func DailyWindow[T any](series []T) []T {
	return series[:min(dailyWindowSize, len(series))]
}

func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// RoundInt rounds to the nearest integer with halves going toward +Inf.
// nil reads as 0.
func RoundInt(v *float64) int {
	if v == nil {
		return 0
	}
	return int(math.Floor(*v + 0.5))
}

// RoundTenth rounds to one decimal place, halves toward +Inf. nil reads as 0.
func RoundTenth(v *float64) float64 {
	if v == nil {
		return 0
	}
	return math.Floor(*v*10+0.5) / 10
}

// at reads series[i], treating nulls and out-of-range indices as missing
func at(series []*float64, i int) *float64 {
	if i < 0 || i >= len(series) {
		return nil
	}
	return series[i]
}

func stringAt(series []string, i int) string {
	if i < 0 || i >= len(series) {
		return ""
	}
	return series[i]
}

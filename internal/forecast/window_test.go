package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectIndices(currentHour, length int) (hours, indices []int) {
	for hour, index := range HourlyIndices(currentHour, length) {
		hours = append(hours, hour)
		indices = append(indices, index)
	}
	return hours, indices
}

func TestHourlyIndices_FullWindowAcrossMidnight(t *testing.T) {
	hours, indices := collectIndices(22, 48)

	wantIndices := make([]int, 0, 24)
	for i := 23; i <= 46; i++ {
		wantIndices = append(wantIndices, i)
	}
	wantHours := []int{23}
	for h := 0; h <= 22; h++ {
		wantHours = append(wantHours, h)
	}

	assert.Len(t, indices, 24)
	assert.Equal(t, wantIndices, indices)
	assert.Equal(t, wantHours, hours)
}

func TestHourlyIndices_Truncation(t *testing.T) {
	tests := []struct {
		name        string
		currentHour int
		length      int
		wantCount   int
	}{
		{name: "short series from midnight", currentHour: 0, length: 10, wantCount: 9},
		{name: "exactly one day at last hour", currentHour: 23, length: 24, wantCount: 0},
		{name: "empty series", currentHour: 5, length: 0, wantCount: 0},
		{name: "one day from noon", currentHour: 12, length: 24, wantCount: 11},
		{name: "two days never truncate", currentHour: 23, length: 48, wantCount: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, indices := collectIndices(tt.currentHour, tt.length)
			assert.Len(t, indices, tt.wantCount)
			assert.LessOrEqual(t, len(indices), tt.length)
			for _, idx := range indices {
				assert.Less(t, idx, tt.length)
			}
		})
	}
}

func TestHourlyIndices_DayBoundaryWraparound(t *testing.T) {
	hours, indices := collectIndices(23, 48)

	// (23+1)%24 + 1*24 = 24: entry 0 of day 1
	assert.Equal(t, 24, indices[0])
	assert.Equal(t, 0, hours[0])
	assert.Equal(t, 47, indices[len(indices)-1])
}

func TestHourlyIndices_NormalizesCurrentHour(t *testing.T) {
	_, fromNegative := collectIndices(-1, 48)
	_, fromLate := collectIndices(23, 48)
	assert.Equal(t, fromLate, fromNegative)

	_, fromOverflow := collectIndices(26, 48)
	_, fromTwo := collectIndices(2, 48)
	assert.Equal(t, fromTwo, fromOverflow)
}

func TestHourlyIndices_StopsEarly(t *testing.T) {
	var seen []int
	for _, index := range HourlyIndices(0, 48) {
		seen = append(seen, index)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestHourlyWindow(t *testing.T) {
	series := make([]int, 30)
	for i := range series {
		series[i] = i * 10
	}

	var labels []string
	var values []int
	for label, v := range HourlyWindow(series, 20) {
		labels = append(labels, label)
		values = append(values, v)
	}

	// indices 21..29 are available, 30..44 are dropped
	assert.Len(t, values, 9)
	assert.Equal(t, "21:00", labels[0])
	assert.Equal(t, 210, values[0])
	assert.Equal(t, "00:00", labels[3])
	assert.Equal(t, 240, values[3])
	assert.Equal(t, "05:00", labels[8])
}

func TestDailyWindow(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, DailyWindow([]string{"a", "b", "c"}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, DailyWindow([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	assert.Empty(t, DailyWindow[string](nil))
}

func ptr(v float64) *float64 {
	return &v
}

func TestRoundInt(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want int
	}{
		{name: "nil coerces to zero", in: nil, want: 0},
		{name: "round down", in: ptr(1.49), want: 1},
		{name: "half rounds up", in: ptr(2.5), want: 3},
		{name: "negative half rounds toward positive", in: ptr(-2.5), want: -2},
		{name: "negative", in: ptr(-3.7), want: -4},
		{name: "integral", in: ptr(17), want: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundInt(tt.in))
		})
	}
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 0.0, RoundTenth(nil))
	assert.InDelta(t, 0.3, RoundTenth(ptr(0.25)), 1e-9)
	assert.InDelta(t, 1.0, RoundTenth(ptr(1.04)), 1e-9)
	assert.InDelta(t, 12.7, RoundTenth(ptr(12.66)), 1e-9)
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "00:00", HourLabel(0))
	assert.Equal(t, "09:00", HourLabel(9))
	assert.Equal(t, "23:00", HourLabel(23))
}

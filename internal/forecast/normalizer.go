package forecast

import (
	"time"

	"github.com/bbernstein/weatherdash/internal/models"
)

const (
	providerTimeLayout = "2006-01-02T15:04"
	providerDateLayout = "2006-01-02"
)

// Normalizer turns raw provider payloads into WeatherSnapshots. It holds no
// state; the zero value is ready to use.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize builds a snapshot from raw. now is the fetch time recorded in the
// snapshot metadata and the fallback reference for the current hour.
func (n *Normalizer) Normalize(raw *models.RawForecastPayload, now time.Time) (*models.WeatherSnapshot, error) {
	if err := checkPayload(raw); err != nil {
		return nil, err
	}

	current := raw.CurrentWeather
	hourly := raw.Hourly
	daily := raw.Daily
	currentHour := referenceHour(raw, now)

	return &models.WeatherSnapshot{
		Current: models.CurrentConditions{
			Temperature:   RoundInt(current.Temperature),
			WeatherCode:   RoundInt(current.WeatherCode),
			WindSpeed:     RoundInt(current.WindSpeed),
			WindDirection: valueOrZero(current.WindDirection),
			IsDay:         current.IsDay != nil && *current.IsDay != 0,
			Time:          current.Time,
		},
		Details: models.WeatherDetails{
			Humidity:            RoundInt(at(hourly.RelativeHumidity2m, currentHour)),
			ApparentTemperature: RoundInt(at(hourly.ApparentTemperature, currentHour)),
			Pressure:            RoundInt(at(hourly.SurfacePressure, currentHour)),
			Visibility:          RoundInt(kilometers(at(hourly.Visibility, currentHour))),
			UVIndex:             RoundInt(at(hourly.UVIndex, currentHour)),
			Precipitation:       RoundTenth(at(hourly.Precipitation, currentHour)),
		},
		DailyToday: models.DailySummary{
			Sunrise:          stringAt(daily.Sunrise, 0),
			Sunset:           stringAt(daily.Sunset, 0),
			MaxTemp:          RoundInt(at(daily.Temperature2mMax, 0)),
			MinTemp:          RoundInt(at(daily.Temperature2mMin, 0)),
			UVIndexMax:       RoundInt(at(daily.UVIndexMax, 0)),
			PrecipitationSum: RoundTenth(at(daily.PrecipitationSum, 0)),
		},
		Forecast: models.Forecast{
			Hourly: hourlyForecast(hourly, currentHour),
			Daily:  dailyForecast(daily),
		},
		Meta: models.SnapshotMeta{
			FetchedAt: now.UTC(),
			Timezone:  raw.Timezone,
		},
	}, nil
}

func checkPayload(raw *models.RawForecastPayload) error {
	switch {
	case raw == nil:
		return NewMalformedPayloadError("payload", "empty response")
	case raw.CurrentWeather == nil:
		return NewMalformedPayloadError("current_weather", "missing object")
	case raw.Hourly == nil:
		return NewMalformedPayloadError("hourly", "missing object")
	case raw.Hourly.Temperature2m == nil:
		return NewMalformedPayloadError("hourly.temperature_2m", "missing series")
	case raw.Daily == nil:
		return NewMalformedPayloadError("daily", "missing object")
	case raw.Daily.Time == nil:
		return NewMalformedPayloadError("daily.time", "missing series")
	}
	return nil
}

// referenceHour is the provider-local hour of the current observation. The
// request runs with timezone=auto, so current_weather.time is already local
// to the location.
func referenceHour(raw *models.RawForecastPayload, now time.Time) int {
	if t, err := time.Parse(providerTimeLayout, raw.CurrentWeather.Time); err == nil {
		return t.Hour()
	}
	return now.In(time.FixedZone("provider", raw.UTCOffsetSeconds)).Hour()
}

func hourlyForecast(hourly *models.RawHourlySeries, currentHour int) []models.HourlyForecast {
	forecast := make([]models.HourlyForecast, 0, hourlyWindowSize)
	for hour, index := range HourlyIndices(currentHour, len(hourly.Temperature2m)) {
		forecast = append(forecast, models.HourlyForecast{
			Time:          HourLabel(hour),
			Temperature:   RoundInt(at(hourly.Temperature2m, index)),
			WeatherCode:   RoundInt(at(hourly.WeatherCode, index)),
			Precipitation: RoundTenth(at(hourly.Precipitation, index)),
		})
	}
	return forecast
}

func dailyForecast(daily *models.RawDailySeries) []models.DailyForecast {
	days := DailyWindow(daily.Time)
	forecast := make([]models.DailyForecast, 0, len(days))
	for i, date := range days {
		forecast = append(forecast, models.DailyForecast{
			Date:             date,
			DayName:          DayName(date),
			MaxTemp:          RoundInt(at(daily.Temperature2mMax, i)),
			MinTemp:          RoundInt(at(daily.Temperature2mMin, i)),
			WeatherCode:      RoundInt(at(daily.WeatherCode, i)),
			PrecipitationSum: RoundTenth(at(daily.PrecipitationSum, i)),
		})
	}
	return forecast
}

// DayName returns the short English weekday of a calendar date such as
// "2024-10-05". The date is interpreted on its own, with no zone shift.
func DayName(date string) string {
	t, err := time.Parse(providerDateLayout, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

func kilometers(meters *float64) *float64 {
	if meters == nil {
		return nil
	}
	km := *meters / 1000
	return &km
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

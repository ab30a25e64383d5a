package models

import "time"

// RawForecastPayload mirrors the Open-Meteo /v1/forecast response. Series
// values are pointers because the provider emits null for missing hours.
type RawForecastPayload struct {
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	Timezone         string           `json:"timezone"`
	UTCOffsetSeconds int              `json:"utc_offset_seconds"`
	CurrentWeather   *RawCurrent      `json:"current_weather"`
	Hourly           *RawHourlySeries `json:"hourly"`
	Daily            *RawDailySeries  `json:"daily"`
}

type RawCurrent struct {
	Temperature   *float64 `json:"temperature"`
	WindSpeed     *float64 `json:"windspeed"`
	WindDirection *float64 `json:"winddirection"`
	WeatherCode   *float64 `json:"weathercode"`
	IsDay         *float64 `json:"is_day"`
	Time          string   `json:"time"`
}

type RawHourlySeries struct {
	Time                []string   `json:"time"`
	Temperature2m       []*float64 `json:"temperature_2m"`
	ApparentTemperature []*float64 `json:"apparent_temperature"`
	RelativeHumidity2m  []*float64 `json:"relative_humidity_2m"`
	WeatherCode         []*float64 `json:"weathercode"`
	SurfacePressure     []*float64 `json:"surface_pressure"`
	Visibility          []*float64 `json:"visibility"`
	UVIndex             []*float64 `json:"uv_index"`
	Precipitation       []*float64 `json:"precipitation"`
}

type RawDailySeries struct {
	Time             []string   `json:"time"`
	WeatherCode      []*float64 `json:"weathercode"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	Sunrise          []string   `json:"sunrise"`
	Sunset           []string   `json:"sunset"`
	UVIndexMax       []*float64 `json:"uv_index_max"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// WeatherSnapshot is the display-ready weather for one location
type WeatherSnapshot struct {
	Current    CurrentConditions `json:"current"`
	Details    WeatherDetails    `json:"details"`
	DailyToday DailySummary      `json:"daily"`
	Forecast   Forecast          `json:"forecast"`
	Meta       SnapshotMeta      `json:"meta"`
}

type CurrentConditions struct {
	Temperature   int     `json:"temperature"`
	WeatherCode   int     `json:"weatherCode"`
	WindSpeed     int     `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
	IsDay         bool    `json:"isDay"`
	Time          string  `json:"time"`
}

// WeatherDetails are evaluated at the current local hour
type WeatherDetails struct {
	Humidity            int     `json:"humidity"`
	ApparentTemperature int     `json:"apparentTemperature"`
	Pressure            int     `json:"pressure"`
	Visibility          int     `json:"visibility"` // km
	UVIndex             int     `json:"uvIndex"`
	Precipitation       float64 `json:"precipitation"`
}

type DailySummary struct {
	Sunrise          string  `json:"sunrise"`
	Sunset           string  `json:"sunset"`
	MaxTemp          int     `json:"maxTemp"`
	MinTemp          int     `json:"minTemp"`
	UVIndexMax       int     `json:"uvIndexMax"`
	PrecipitationSum float64 `json:"precipitationSum"`
}

type Forecast struct {
	Hourly []HourlyForecast `json:"hourly"`
	Daily  []DailyForecast  `json:"daily"`
}

type HourlyForecast struct {
	Time          string  `json:"time"` // "HH:00"
	Temperature   int     `json:"temperature"`
	WeatherCode   int     `json:"weatherCode"`
	Precipitation float64 `json:"precipitation"`
}

type DailyForecast struct {
	Date             string  `json:"date"`
	DayName          string  `json:"dayName"`
	MaxTemp          int     `json:"maxTemp"`
	MinTemp          int     `json:"minTemp"`
	WeatherCode      int     `json:"weatherCode"`
	PrecipitationSum float64 `json:"precipitationSum"`
}

type SnapshotMeta struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Timezone  string    `json:"timezone"`
}

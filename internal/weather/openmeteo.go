package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bbernstein/weatherdash/internal/forecast"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/pkg/http/client"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

var (
	hourlyVariables = "temperature_2m,apparent_temperature,relative_humidity_2m,weathercode,surface_pressure,visibility,uv_index,precipitation"
	dailyVariables  = "weathercode,temperature_2m_max,temperature_2m_min,sunrise,sunset,uv_index_max,precipitation_sum"
)

// ErrCircuitOpen is returned while the breaker is refusing calls
var ErrCircuitOpen = errors.New("forecast provider circuit open")

// OpenMeteoProvider fetches forecasts from the Open-Meteo /v1/forecast API
type OpenMeteoProvider struct {
	httpClient client.Interface
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpClient client.Interface) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// Only upstream trouble counts toward tripping; bad requests and
		// caller cancellations leave the breaker alone.
		IsSuccessful: breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &OpenMeteoProvider{
		httpClient: httpClient,
		circuit:    cb,
	}
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc models.Location) (*models.RawForecastPayload, error) {
	path := "/v1/forecast?" + forecastQuery(loc).Encode()

	log.Debug().Str("location", loc.String()).Msg("Fetching forecast from Open-Meteo")

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, err := p.httpClient.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(resp.Body), 200)}
		}
		return resp.Body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	var payload models.RawForecastPayload
	if err := json.Unmarshal(result.([]byte), &payload); err != nil {
		return nil, forecast.NewMalformedPayloadError("payload", fmt.Sprintf("decoding forecast response: %v", err))
	}

	return &payload, nil
}

func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

func forecastQuery(loc models.Location) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	values.Set("current_weather", "true")
	values.Set("hourly", hourlyVariables)
	values.Set("daily", dailyVariables)
	values.Set("timezone", "auto")
	values.Set("forecast_days", "7")
	return values
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

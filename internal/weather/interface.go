package weather

import (
	"context"
	"time"

	"github.com/bbernstein/weatherdash/internal/models"
)

type Provider interface {
	Fetch(ctx context.Context, loc models.Location) (*models.RawForecastPayload, error)
}

type SnapshotCache interface {
	Get(key string) (*models.WeatherSnapshot, bool)
	Set(key string, value *models.WeatherSnapshot)
}

type Normalizer interface {
	Normalize(raw *models.RawForecastPayload, now time.Time) (*models.WeatherSnapshot, error)
}

// Lookup is what callers above this package depend on
type Lookup interface {
	GetWeatherForLocation(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error)
}

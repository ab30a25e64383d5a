package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bbernstein/weatherdash/internal/forecast"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/rs/zerolog/log"
)

const DefaultFetchTimeout = 10 * time.Second

// CacheKey identifies a location in the snapshot cache. Coordinates are
// rounded to four decimals so nearby lookups share an entry.
func CacheKey(loc models.Location) string {
	return fmt.Sprintf("weather:%.4f,%.4f", loc.Latitude, loc.Longitude)
}

type Service struct {
	cache        SnapshotCache
	provider     Provider
	normalizer   Normalizer
	fetchTimeout time.Duration
	now          func() time.Time
}

type ServiceOption func(*Service)

func WithFetchTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(cache SnapshotCache, provider Provider, normalizer Normalizer, opts ...ServiceOption) *Service {
	s := &Service{
		cache:        cache,
		provider:     provider,
		normalizer:   normalizer,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetWeatherForLocation returns the cached snapshot for loc or fetches and
// normalizes a fresh one. Failures are never cached. Concurrent misses for
// the same key may both fetch; the last write wins.
func (s *Service) GetWeatherForLocation(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error) {
	key := CacheKey(loc)

	if snapshot, ok := s.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("Weather cache hit")
		return snapshot, nil
	}
	log.Debug().Str("key", key).Str("location", loc.String()).Msg("Weather cache miss, fetching")

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	raw, err := s.provider.Fetch(fetchCtx, loc)
	if err != nil {
		var malformed *forecast.MalformedPayloadError
		if errors.As(err, &malformed) {
			return nil, err
		}
		if fetchCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", s.fetchTimeout, err)
		}
		return nil, NewUpstreamFetchError(loc, err)
	}

	snapshot, err := s.normalizer.Normalize(raw, s.now())
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, snapshot)
	return snapshot, nil
}

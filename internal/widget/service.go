package widget

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/internal/weather"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	store   Store
	weather weather.Lookup
	now     func() time.Time
	newID   func() string
}

func NewService(store Store, lookup weather.Lookup) *Service {
	return &Service{
		store:   store,
		weather: lookup,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// List returns active widgets, newest first
func (s *Service) List(ctx context.Context) ([]models.Widget, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing widgets: %w", err)
	}

	active := make([]models.Widget, 0, len(all))
	for _, w := range all {
		if w.IsActive {
			active = append(active, w)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

// Create adds a widget for loc. Only one active widget may track a location.
func (s *Service) Create(ctx context.Context, loc models.Location) (*models.Widget, error) {
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	existing, err := s.store.FindActiveByLocation(ctx, loc)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicate
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("checking for existing widget: %w", err)
	}

	now := s.now().UTC()
	w := models.Widget{
		ID:          s.newID(),
		Location:    loc,
		CreatedAt:   now,
		LastUpdated: now,
		IsActive:    true,
	}

	if err := s.store.Put(ctx, w); err != nil {
		return nil, fmt.Errorf("saving widget: %w", err)
	}

	log.Info().
		Str("widget_id", w.ID).
		Str("location", loc.String()).
		Msg("Widget created")

	return &w, nil
}

// Delete marks the widget inactive. Deleting twice reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	w, err := s.activeWidget(ctx, id)
	if err != nil {
		return err
	}

	w.IsActive = false
	if err := s.store.Put(ctx, *w); err != nil {
		return fmt.Errorf("deleting widget: %w", err)
	}

	log.Info().Str("widget_id", id).Msg("Widget deleted")
	return nil
}

// Weather returns the widget together with the weather at its location and
// records when it was last refreshed
func (s *Service) Weather(ctx context.Context, id string) (*models.Widget, *models.WeatherSnapshot, error) {
	w, err := s.activeWidget(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := s.weather.GetWeatherForLocation(ctx, w.Location)
	if err != nil {
		return nil, nil, err
	}

	w.LastUpdated = s.now().UTC()
	if err := s.store.Put(ctx, *w); err != nil {
		log.Warn().Err(err).Str("widget_id", id).Msg("Failed to record widget refresh time")
	}

	return w, snapshot, nil
}

func (s *Service) activeWidget(ctx context.Context, id string) (*models.Widget, error) {
	w, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting widget: %w", err)
	}
	if !w.IsActive {
		return nil, ErrNotFound
	}
	return w, nil
}

// Package app assembles the services behind both entry points
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bbernstein/weatherdash/internal/api"
	"github.com/bbernstein/weatherdash/internal/cache"
	"github.com/bbernstein/weatherdash/internal/config"
	"github.com/bbernstein/weatherdash/internal/forecast"
	"github.com/bbernstein/weatherdash/internal/geocoding"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/internal/weather"
	"github.com/bbernstein/weatherdash/internal/widget"
	"github.com/bbernstein/weatherdash/pkg/http/client"
	"github.com/rs/zerolog/log"
)

type App struct {
	Router  http.Handler
	Cache   *cache.TTLCache[*models.WeatherSnapshot]
	Sweeper *cache.Sweeper
	Weather *weather.Service
	Widgets *widget.Service
}

// StoreFactory builds the widget store selected by the configuration
type StoreFactory func(ctx context.Context, cfg *config.Config) (widget.Store, error)

func DefaultStoreFactory(ctx context.Context, cfg *config.Config) (widget.Store, error) {
	if cfg.WidgetStore != config.WidgetStoreDynamo {
		return widget.NewMemoryStore(), nil
	}

	dynamoClient, err := widget.NewDynamoClient(ctx, cfg.DynamoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB client: %w", err)
	}
	return widget.NewDynamoStore(dynamoClient, cfg.WidgetsTable), nil
}

// New wires the cache, provider, lookup service, widget service and router.
// The sweeper is created but not started; callers own its lifecycle.
func New(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig, newStore StoreFactory) (*App, error) {
	if newStore == nil {
		newStore = DefaultStoreFactory
	}
	if cacheCfg == nil {
		cacheCfg = config.DefaultCacheConfig()
	}

	snapshots, err := cache.NewTTLCache[*models.WeatherSnapshot](cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("creating weather cache: %w", err)
	}

	forecastClient := client.New(client.Options{
		BaseURL:    cfg.OpenMeteoBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
	geocodingClient := client.New(client.Options{
		BaseURL:    cfg.GeocodingBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	lookup := weather.NewService(
		snapshots,
		weather.NewOpenMeteoProvider(forecastClient),
		forecast.NewNormalizer(),
		weather.WithFetchTimeout(cfg.HTTPTimeout),
	)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating widget store: %w", err)
	}
	widgets := widget.NewService(store, lookup)

	handler := api.NewHandler(widgets, geocoding.NewClient(geocodingClient), lookup, snapshots)

	log.Debug().
		Str("widget_store", cfg.WidgetStore).
		Dur("fetch_timeout", cfg.HTTPTimeout).
		Msg("Application wired")

	return &App{
		Router:  api.NewRouter(handler),
		Cache:   snapshots,
		Sweeper: cache.NewSweeper(snapshots, cacheCfg.GetSweepInterval()),
		Weather: lookup,
		Widgets: widgets,
	}, nil
}

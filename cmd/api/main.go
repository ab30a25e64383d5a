package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/weatherdash/internal/api"
	"github.com/bbernstein/weatherdash/internal/app"
	"github.com/bbernstein/weatherdash/internal/config"
	"github.com/rs/zerolog/log"
)

var (
	adapter     *api.LambdaAdapter
	setupOnce   sync.Once
	initAdapter = defaultInitAdapter
)

func defaultInitAdapter(ctx context.Context) (*api.LambdaAdapter, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	// Lambda instances are short-lived; expired entries are evicted on read
	// instead of by a background sweep.
	a, err := app.New(ctx, cfg, config.GetCacheConfig(), nil)
	if err != nil {
		return nil, err
	}
	return api.NewLambdaAdapter(a.Router), nil
}

func handleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if adapter == nil {
		return api.Error("Handler not initialized", http.StatusInternalServerError)
	}
	return adapter.HandleRequest(ctx, event)
}

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		log.Debug().Msg("Initializing weather API...")
		var err error
		adapter, err = initAdapter(context.Background())
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize handler")
			return
		}
		log.Debug().Msg("Weather API initialized successfully")
	})
	return initError
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambda.Start(handleRequest)
}

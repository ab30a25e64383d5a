package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bbernstein/weatherdash/internal/cache"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/internal/weather"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type WidgetService interface {
	List(ctx context.Context) ([]models.Widget, error)
	Create(ctx context.Context, loc models.Location) (*models.Widget, error)
	Delete(ctx context.Context, id string) error
	Weather(ctx context.Context, id string) (*models.Widget, *models.WeatherSnapshot, error)
}

type LocationSearcher interface {
	Search(ctx context.Context, name string) ([]models.Location, error)
}

type StatsProvider interface {
	GetStats() cache.Stats
}

type Handler struct {
	widgets   WidgetService
	locations LocationSearcher
	weather   weather.Lookup
	cache     StatsProvider
}

func NewHandler(widgets WidgetService, locations LocationSearcher, lookup weather.Lookup, stats StatsProvider) *Handler {
	return &Handler{
		widgets:   widgets,
		locations: locations,
		weather:   lookup,
		cache:     stats,
	}
}

// NewRouter wires every endpoint. CORS wraps the router so preflight
// requests are answered even for routes without an OPTIONS method.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/widgets", h.listWidgets).Methods(http.MethodGet)
	api.HandleFunc("/widgets", h.createWidget).Methods(http.MethodPost)
	api.HandleFunc("/widgets/locations", h.searchLocations).Methods(http.MethodPost)
	api.HandleFunc("/widgets/{id}", h.deleteWidget).Methods(http.MethodDelete)
	api.HandleFunc("/widgets/{id}/weather", h.widgetWeather).Methods(http.MethodGet)
	api.HandleFunc("/weather", h.weatherByCoordinates).Methods(http.MethodGet)
	api.HandleFunc("/cache/stats", h.cacheStats).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})

	return corsMiddleware(r)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

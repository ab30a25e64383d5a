package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bbernstein/weatherdash/internal/forecast"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/internal/weather"
	"github.com/bbernstein/weatherdash/internal/widget"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type widgetRef struct {
	ID       string          `json:"id"`
	Location models.Location `json:"location"`
}

type widgetWeather struct {
	Widget  widgetRef               `json:"widget"`
	Weather *models.WeatherSnapshot `json:"weather"`
}

type locationQuery struct {
	Name string `json:"name"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "weather-widget",
	})
}

func (h *Handler) listWidgets(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.widgets.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list widgets")
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}
	writeJSON(w, http.StatusOK, NewListResponse(widgets))
}

func (h *Handler) createWidget(w http.ResponseWriter, r *http.Request) {
	var loc models.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	created, err := h.widgets.Create(r.Context(), loc)
	switch {
	case errors.Is(err, widget.ErrInvalidLocation):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	case errors.Is(err, widget.ErrDuplicate):
		writeError(w, http.StatusConflict, "Widget for this location already exists", nil)
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to create widget")
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	writeJSON(w, http.StatusCreated, &Response{
		Success: true,
		Message: "Widget created successfully",
		Data:    created,
	})
}

func (h *Handler) deleteWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.widgets.Delete(r.Context(), id)
	switch {
	case errors.Is(err, widget.ErrNotFound):
		writeError(w, http.StatusNotFound, "Widget not found", nil)
		return
	case err != nil:
		log.Error().Err(err).Str("widget_id", id).Msg("Failed to delete widget")
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	writeJSON(w, http.StatusOK, &Response{Success: true, Message: "Widget deleted successfully"})
}

func (h *Handler) widgetWeather(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	wgt, snapshot, err := h.widgets.Weather(r.Context(), id)
	if errors.Is(err, widget.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Widget not found", nil)
		return
	}
	if err != nil {
		writeWeatherError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSuccessResponse(widgetWeather{
		Widget:  widgetRef{ID: wgt.ID, Location: wgt.Location},
		Weather: snapshot,
	}))
}

func (h *Handler) weatherByCoordinates(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	for key := range r.URL.Query() {
		params[key] = r.URL.Query().Get(key)
	}

	lat, lon, err := ParseCoordinates(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	loc := models.Location{
		Name:      fmt.Sprintf("%.4f,%.4f", lat, lon),
		Latitude:  lat,
		Longitude: lon,
	}

	snapshot, err := h.weather.GetWeatherForLocation(r.Context(), loc)
	if err != nil {
		writeWeatherError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSuccessResponse(snapshot))
}

func (h *Handler) searchLocations(w http.ResponseWriter, r *http.Request) {
	var query locationQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil || strings.TrimSpace(query.Name) == "" {
		writeError(w, http.StatusBadRequest, "Location name is required", nil)
		return
	}

	locations, err := h.locations.Search(r.Context(), query.Name)
	if err != nil {
		log.Error().Err(err).Str("query", query.Name).Msg("Geocoding error")
		writeError(w, http.StatusInternalServerError, "Failed to fetch location suggestions", err)
		return
	}

	writeJSON(w, http.StatusOK, NewListResponse(locations))
}

func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewSuccessResponse(h.cache.GetStats()))
}

func writeWeatherError(w http.ResponseWriter, err error) {
	var fetchErr *weather.UpstreamFetchError
	var malformed *forecast.MalformedPayloadError

	switch {
	case errors.As(err, &fetchErr):
		log.Error().Err(err).Str("location", fetchErr.Location.String()).Msg("Weather provider unavailable")
	case errors.As(err, &malformed):
		log.Error().Err(err).Str("field", malformed.Field).Msg("Weather provider returned malformed data")
	default:
		log.Error().Err(err).Msg("Weather data error")
	}

	writeError(w, http.StatusInternalServerError, "Failed to fetch weather data", err)
}

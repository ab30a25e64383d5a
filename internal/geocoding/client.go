package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/bbernstein/weatherdash/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const resultCount = 5

type searchResponse struct {
	Results []struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// Client looks up place names through the Open-Meteo geocoding API. Results
// are passed through as-is.
type Client struct {
	httpClient client.Interface
}

func NewClient(httpClient client.Interface) *Client {
	return &Client{httpClient: httpClient}
}

// Search returns up to five candidate locations matching name
func (c *Client) Search(ctx context.Context, name string) ([]models.Location, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", fmt.Sprint(resultCount))
	params.Set("language", "en")
	params.Set("format", "json")

	resp, err := c.httpClient.Get(ctx, "/v1/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching locations: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("searching locations: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}

	locations := make([]models.Location, 0, len(body.Results))
	for _, r := range body.Results {
		locations = append(locations, models.Location{
			ID:        r.ID,
			Name:      r.Name,
			Country:   r.Country,
			Admin1:    r.Admin1,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	log.Debug().
		Str("query", name).
		Int("results", len(locations)).
		Msg("Geocoding search complete")

	return locations, nil
}

package weather

import (
	"fmt"

	"github.com/bbernstein/weatherdash/internal/models"
)

// UpstreamFetchError reports that the forecast provider could not be reached,
// answered with a failure status, or took longer than the fetch timeout
type UpstreamFetchError struct {
	Location models.Location
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching weather for %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("fetching weather for %s", e.Location)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// NewUpstreamFetchError creates a new upstream fetch error
func NewUpstreamFetchError(loc models.Location, err error) *UpstreamFetchError {
	return &UpstreamFetchError{
		Location: loc,
		Err:      err,
	}
}

// StatusError is returned by a provider when the upstream answers non-2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

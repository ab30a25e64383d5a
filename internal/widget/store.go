package widget

import (
	"context"
	"errors"

	"github.com/bbernstein/weatherdash/internal/models"
)

var (
	ErrNotFound  = errors.New("widget not found")
	ErrDuplicate = errors.New("widget for this location already exists")
	// ErrInvalidLocation wraps validation failures on Create
	ErrInvalidLocation = errors.New("invalid location")
)

// Store persists widgets. Deleted widgets stay in the store with IsActive
// false, so List returns inactive entries too.
type Store interface {
	List(ctx context.Context) ([]models.Widget, error)
	// Get returns ErrNotFound when no widget has the id
	Get(ctx context.Context, id string) (*models.Widget, error)
	// FindActiveByLocation returns ErrNotFound when no active widget tracks loc
	FindActiveByLocation(ctx context.Context, loc models.Location) (*models.Widget, error)
	Put(ctx context.Context, w models.Widget) error
}

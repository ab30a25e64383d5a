package models

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location is a named place as returned by the geocoding passthrough
type Location struct {
	ID        int64   `json:"id,omitempty" dynamodbav:"id,omitempty"`
	Name      string  `json:"name" dynamodbav:"name" validate:"required"`
	Country   string  `json:"country" dynamodbav:"country"`
	Admin1    string  `json:"admin1" dynamodbav:"admin1"`
	Latitude  float64 `json:"latitude" dynamodbav:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude" validate:"gte=-180,lte=180"`
}

// Validate checks the location has a name and coordinates in range
func (l *Location) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return fmt.Errorf("invalid location: coordinates must be numbers")
	}
	return nil
}

// SamePlace reports whether two locations describe the same widget target
func (l Location) SamePlace(other Location) bool {
	return l.Name == other.Name &&
		l.Country == other.Country &&
		l.Admin1 == other.Admin1 &&
		l.Latitude == other.Latitude &&
		l.Longitude == other.Longitude
}

func (l Location) String() string {
	if l.Country == "" {
		return fmt.Sprintf("%s (%.4f,%.4f)", l.Name, l.Latitude, l.Longitude)
	}
	return fmt.Sprintf("%s, %s (%.4f,%.4f)", l.Name, l.Country, l.Latitude, l.Longitude)
}

// Widget is a dashboard entry tracking the weather for one location
type Widget struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Location    Location  `json:"location" dynamodbav:"location"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated" dynamodbav:"lastUpdated"`
	IsActive    bool      `json:"isActive" dynamodbav:"isActive"`
}

// Validate checks if a Widget's fields are valid
func (w *Widget) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("widget ID is required")
	}
	if w.CreatedAt.IsZero() {
		return fmt.Errorf("createdAt is required")
	}
	return w.Location.Validate()
}

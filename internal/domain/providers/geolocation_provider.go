package providers

import (
	"context"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
)

// ReverseGeocoder turns a coordinate pair into a human-readable
// province/district guess. Implementations call a read-only external
// collaborator; they are only ever invoked on explicit user action.
type ReverseGeocoder interface {
	// ReverseGeocode converts coordinates to a place guess. It fails with
	// a GEOCODE error when the result carries no usable province or
	// district field, and a NETWORK error when the collaborator is
	// unreachable.
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Place, error)
}

// Place is the reverse-geocoded guess for a coordinate pair. Either name
// may be empty, but never both.
type Place struct {
	ProvinceName string
	DistrictName string
	Coordinates  entities.Coordinates
}

// DeviceLocator acquires the device position once. Acquisition is
// single-shot and bounded; there is no retry. Cancelling the context stops
// the wait, but any in-flight platform callback is left to finish and its
// result discarded.
type DeviceLocator interface {
	Acquire(ctx context.Context) (entities.Coordinates, error)
}

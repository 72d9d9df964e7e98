package geolocation

import (
	"context"
	"time"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

const defaultAcquireTimeout = 8 * time.Second

// AcquireFunc is a callback-style position acquirer. Implementations call
// report exactly once on success or fail exactly once on error. There is
// no way to abort a platform acquisition once started; the wrapper simply
// stops waiting.
type AcquireFunc func(report func(entities.Coordinates), fail func(error))

// DeviceSource adapts a callback-style acquirer into the single-shot
// DeviceLocator contract with a bounded wait.
type DeviceSource struct {
	acquire AcquireFunc
	timeout time.Duration
}

// NewDeviceSource creates a device locator around acquire. A zero timeout
// uses the 8 second default.
func NewDeviceSource(acquire AcquireFunc, timeout time.Duration) providers.DeviceLocator {
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}
	return &DeviceSource{acquire: acquire, timeout: timeout}
}

// NewFixedSource returns a device locator that always reports the given
// coordinates. Fixed installations with a known mount point use this. A
// zero timeout uses the 8 second default.
func NewFixedSource(coords entities.Coordinates, timeout time.Duration) providers.DeviceLocator {
	return NewDeviceSource(func(report func(entities.Coordinates), _ func(error)) {
		report(coords)
	}, timeout)
}

// NewUnavailableSource returns a device locator that always fails, for
// deployments without any positioning capability.
func NewUnavailableSource() providers.DeviceLocator {
	return NewDeviceSource(func(_ func(entities.Coordinates), fail func(error)) {
		fail(apperrors.NewValidationError("device positioning is not available"))
	}, 0)
}

// Acquire waits for the first callback, the timeout, or ctx cancellation,
// whichever comes first. Timeout and denial surface as a VALIDATION error
// carrying a user-facing message, never as a panic or a raw platform
// error.
func (d *DeviceSource) Acquire(ctx context.Context) (entities.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		coords entities.Coordinates
		err    error
	}
	// Buffered so a late callback after timeout does not leak a goroutine.
	done := make(chan result, 1)

	go d.acquire(
		func(coords entities.Coordinates) {
			select {
			case done <- result{coords: coords}:
			default:
			}
		},
		func(err error) {
			select {
			case done <- result{err: err}:
			default:
			}
		},
	)

	select {
	case <-ctx.Done():
		return entities.Coordinates{}, apperrors.NewValidationError("could not acquire device location, check permissions")
	case res := <-done:
		if res.err != nil {
			if apperrors.IsType(res.err, apperrors.ErrorTypeValidation) {
				return entities.Coordinates{}, res.err
			}
			return entities.Coordinates{}, apperrors.NewValidationError("could not acquire device location, check permissions")
		}
		return res.coords, nil
	}
}

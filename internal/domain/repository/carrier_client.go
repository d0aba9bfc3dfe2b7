package repository

import (
	"context"

	"seacargos-service/internal/domain/entity"
)

// CarrierClient fetches tracking data from the carrier web endpoint.
// A nil payload with a nil error is the normal "carrier has no data"
// outcome; unavailability and malformed responses degrade to it as
// well, so callers only skip and move on.
type CarrierClient interface {
	// FetchContainer looks up a container or booking number and returns
	// the first matching container element.
	FetchContainer(ctx context.Context, searchTerm string) (entity.RawContainer, error)

	// FetchSchedule returns the event timeline of a container. The
	// endpoint accepts either the container number or the booking
	// number as key; the internal cop number is required either way.
	FetchSchedule(ctx context.Context, cntrNo, bkgNo, copNo string) ([]entity.RawScheduleEvent, error)
}

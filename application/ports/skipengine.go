package ports

import (
	"context"
	"encoding/json"

	"mnuda-backend/domain/core/valueobjects"
)

// SkipEngine defines the interface to the upstream skip-trace services. All
// methods return the raw response body: the application never normalizes at
// the transport boundary, extraction happens in the domain on read.
//
// Implementations must map upstream throttling to a rate-limit error so
// callers can distinguish "slow down" from "this lookup failed".
type SkipEngine interface {
	// PeopleByAddress searches people associated with an address
	PeopleByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error)

	// PeopleByName searches people by full name
	PeopleByName(ctx context.Context, name string) (json.RawMessage, error)

	// PeopleByEmail searches people by email address
	PeopleByEmail(ctx context.Context, email string) (json.RawMessage, error)

	// PeopleByPhone searches people by phone number
	PeopleByPhone(ctx context.Context, phone string) (json.RawMessage, error)

	// PersonDetail fetches the full record behind an opaque upstream person id
	PersonDetail(ctx context.Context, apiPersonID string) (json.RawMessage, error)

	// PropertyByAddress fetches the property record for an address
	PropertyByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error)
}

// Geocoder resolves device coordinates to a street address for bootstrap
// nodes
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (valueobjects.Address, error)
}

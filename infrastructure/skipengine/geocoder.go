package skipengine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/valueobjects"
	pkgerrors "mnuda-backend/pkg/errors"
	"mnuda-backend/pkg/observability"
)

// Geocoder resolves coordinates to street addresses using a
// Nominatim-compatible reverse geocoding endpoint
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	tracer     *observability.Tracer
	logger     *zap.Logger
}

// NewGeocoder creates a new reverse geocoder
func NewGeocoder(baseURL string, timeout time.Duration, tracer *observability.Tracer, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		tracer:     tracer,
		logger:     logger,
	}
}

var _ ports.Geocoder = (*Geocoder)(nil)

// reverseResponse is the subset of the Nominatim reverse payload we read
type reverseResponse struct {
	Address struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

// ReverseGeocode resolves device coordinates to a street address
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (valueobjects.Address, error) {
	var addr valueobjects.Address
	err := g.tracer.TraceFunction(ctx, "geocoder.reverse", func(ctx context.Context) error {
		q := url.Values{}
		q.Set("format", "json")
		q.Set("lat", fmt.Sprintf("%f", lat))
		q.Set("lon", fmt.Sprintf("%f", lng))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
		if err != nil {
			return pkgerrors.NewInternalError("failed to build request").WithCause(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return pkgerrors.NewNetworkError("geocoder unreachable", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return pkgerrors.NewRateLimitError("geocoder")
		}
		if resp.StatusCode >= 400 {
			return pkgerrors.NewExternalError("geocoder",
				fmt.Errorf("status %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return pkgerrors.NewNetworkError("failed to read response", err)
		}

		var parsed reverseResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return pkgerrors.NewExternalError("geocoder", err)
		}

		city := parsed.Address.City
		if city == "" {
			city = parsed.Address.Town
		}
		if city == "" {
			city = parsed.Address.Village
		}
		street := parsed.Address.Road
		if parsed.Address.HouseNumber != "" {
			street = parsed.Address.HouseNumber + " " + parsed.Address.Road
		}

		addr = valueobjects.NewAddress(street, city, parsed.Address.State, parsed.Address.Postcode)
		return nil
	})
	return addr, err
}

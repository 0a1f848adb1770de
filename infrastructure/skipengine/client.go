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

// Client calls the upstream skip-trace services over HTTP. Responses are
// returned raw: normalization is the domain's job, the transport only maps
// status codes to error types. 429 becomes a rate-limit error so callers can
// tell throttling apart from a failed lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	tracer     *observability.Tracer
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a new skip engine client
func NewClient(baseURL, apiKey string, timeout time.Duration, tracer *observability.Tracer, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		tracer:     tracer,
		metrics:    metrics,
		logger:     logger,
	}
}

var _ ports.SkipEngine = (*Client)(nil)

// PeopleByAddress searches people associated with an address
func (c *Client) PeopleByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("street", addr.Street)
	q.Set("citystatezip", fmt.Sprintf("%s %s %s", addr.City, addr.State, addr.Postal))
	return c.get(ctx, "people.address", "/people/address", q)
}

// PeopleByName searches people by full name
func (c *Client) PeopleByName(ctx context.Context, name string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("name", name)
	return c.get(ctx, "people.name", "/people/name", q)
}

// PeopleByEmail searches people by email address
func (c *Client) PeopleByEmail(ctx context.Context, email string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("email", email)
	return c.get(ctx, "people.email", "/people/email", q)
}

// PeopleByPhone searches people by phone number
func (c *Client) PeopleByPhone(ctx context.Context, phone string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("phone", phone)
	return c.get(ctx, "people.phone", "/people/phone", q)
}

// PersonDetail fetches the full record behind an opaque upstream person id
func (c *Client) PersonDetail(ctx context.Context, apiPersonID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("person_id", apiPersonID)
	return c.get(ctx, "person.detail", "/person", q)
}

// PropertyByAddress fetches the property record for an address
func (c *Client) PropertyByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("street", addr.Street)
	q.Set("city", addr.City)
	q.Set("state", addr.State)
	q.Set("zip", addr.Postal)
	return c.get(ctx, "property", "/property", q)
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) (json.RawMessage, error) {
	timer := c.metrics.StartTimer("lookup_duration", op)
	var body json.RawMessage
	err := c.tracer.TraceFunction(ctx, "skipengine."+op, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
		if err != nil {
			return pkgerrors.NewInternalError("failed to build request").WithCause(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return pkgerrors.NewNetworkError("skip engine unreachable", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return pkgerrors.NewNetworkError("failed to read response", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return pkgerrors.NewRateLimitError("skip engine")
		case resp.StatusCode >= 400:
			c.logger.Warn("Skip engine returned error status",
				zap.String("op", op),
				zap.Int("status", resp.StatusCode),
			)
			return pkgerrors.NewExternalError("skip engine",
				fmt.Errorf("status %d", resp.StatusCode))
		}

		body = raw
		return nil
	})
	timer.Stop(ctx)
	switch {
	case err == nil:
		c.metrics.Increment(ctx, "lookup_success", op)
	case pkgerrors.IsRateLimit(err):
		c.metrics.Increment(ctx, "lookup_throttled", op)
	default:
		c.metrics.Increment(ctx, "lookup_failure", op)
	}
	return body, err
}

// Upstream responses cap out well under this; the limit guards against a
// misbehaving endpoint streaming forever
const maxResponseBytes = 8 << 20

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// client holds what every provider wrapper shares: a base endpoint and an
// HTTP client with a bounded timeout.
type client struct {
	// base is the provider endpoint.
	base string
	// http performs the request; its timeout bounds the whole call.
	http *http.Client
}

// Option configures a provider client.
type Option func(*client)

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *client) {
		if h != nil {
			c.http = h
		}
	}
}

// errEndpointRequired is returned when a provider endpoint is missing.
var errEndpointRequired = errors.New("provider endpoint must be provided")

// newClient builds the shared client portion of a provider wrapper.
func newClient(base string, timeout time.Duration, opts ...Option) (client, error) {
	if base == "" {
		return client{}, errEndpointRequired
	}

	c := client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c, nil
}

// getJSON performs one GET against the base endpoint with the given query
// and decodes the JSON body into out. Transport failures are classified onto
// the shared taxonomy.
func (c client) getJSON(ctx context.Context, query url.Values, out any) error {
	requestURL := c.base
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %w", classify(err), err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s", almanac.ErrNetwork, response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", classify(err), err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// coordinateQuery builds the lat/lon query shared by location-keyed providers.
func coordinateQuery(fix almanac.LocationFix) url.Values {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(fix.Latitude, 'f', 4, 64))
	query.Set("lon", strconv.FormatFloat(fix.Longitude, 'f', 4, 64))

	return query
}

// classify maps a transport failure onto the shared taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return almanac.ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return almanac.ErrTimeout
	}

	return almanac.ErrNetwork
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"saudi-weather-api/internal/weather"
)

// NominatimClient resolves coordinates to addresses via a Nominatim-style
// reverse-geocoding endpoint. Best-effort enrichment: callers are expected
// to degrade gracefully on failure.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

func NewNominatimClient(client *http.Client, baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("nominatim"),
	}
}

// ReverseGeocode issues a single reverse lookup at city zoom level.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*weather.AddressPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("zoom", "10")
		values.Set("addressdetails", "1")

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/reverse?%s", c.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		// Nominatim's usage policy requires an identifying User-Agent.
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json, text/plain, */*")
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.AddressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reverse-geocode response: %w", err)
	}
	return &payload, nil
}

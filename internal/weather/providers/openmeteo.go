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

// OpenMeteoClient fetches raw 7-day forecasts from the Open-Meteo API.
type OpenMeteoClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

const forecastDays = 7

// NewOpenMeteoClient creates a client against the given base URL
// (e.g. https://api.open-meteo.com/v1). Open-Meteo requires no API key.
func NewOpenMeteoClient(client *http.Client, baseURL, userAgent string) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("openmeteo"),
	}
}

// FetchForecast issues a single forecast request for the given coordinates:
// hourly temperature/weather-code series, daily code/min/max/sunrise/sunset
// series, and current conditions, with the provider resolving the timezone
// from the coordinates.
func (c *OpenMeteoClient) FetchForecast(ctx context.Context, lat, lon float64) (*weather.ForecastPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("hourly", "temperature_2m,weathercode")
		values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min,sunrise,sunset")
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(forecastDays))
		values.Set("current_weather", "true")

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/forecast?%s", c.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json, text/plain, */*")
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.ForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	return &payload, nil
}

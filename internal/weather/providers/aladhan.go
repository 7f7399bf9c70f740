package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"saudi-weather-api/internal/weather"
)

// AladhanClient fetches daily prayer timings from the Aladhan API.
type AladhanClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

// calcMethodMWL selects the Muslim World League calculation method.
const calcMethodMWL = "3"

func NewAladhanClient(client *http.Client, baseURL, userAgent string) *AladhanClient {
	return &AladhanClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("aladhan"),
	}
}

// aladhanResponse is the raw timings envelope; only the fields we surface
// are decoded.
type aladhanResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings weather.PrayerTimings `json:"timings"`
		Date    struct {
			Readable  string `json:"readable"`
			Gregorian struct {
				Date string `json:"date"`
			} `json:"gregorian"`
		} `json:"date"`
		Meta struct {
			Method struct {
				Name string `json:"name"`
			} `json:"method"`
		} `json:"meta"`
	} `json:"data"`
}

// FetchTimings requests prayer times for the given coordinates and date.
func (c *AladhanClient) FetchTimings(ctx context.Context, lat, lon float64, date time.Time) (*weather.PrayerPayload, error) {
	dateStr := date.Format("02-01-2006")

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("method", calcMethodMWL)
		values.Set("iso8601", "false")

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/v1/timings/%s?%s", c.baseURL, dateStr, values.Encode()), nil)
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

	var payload aladhanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode prayer timings response: %w", err)
	}

	return &weather.PrayerPayload{
		Timings: payload.Data.Timings,
		Date:    payload.Data.Date.Readable,
		Method:  payload.Data.Meta.Method.Name,
	}, nil
}

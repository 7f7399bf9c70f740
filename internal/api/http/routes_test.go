package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"saudi-weather-api/internal/cache"
	"saudi-weather-api/internal/cities"
	"saudi-weather-api/internal/geo"
	"saudi-weather-api/internal/weather"
	"saudi-weather-api/internal/weather/providers"
)

type stubForecast struct {
	payload *weather.ForecastPayload
	err     error
}

func (s *stubForecast) FetchForecast(context.Context, float64, float64) (*weather.ForecastPayload, error) {
	return s.payload, s.err
}

type stubGeocode struct {
	payload *weather.AddressPayload
	err     error
}

func (s *stubGeocode) ReverseGeocode(context.Context, float64, float64) (*weather.AddressPayload, error) {
	return s.payload, s.err
}

func newTestApp(forecast weather.ForecastClient, geocode weather.GeocodeClient) *fiber.App {
	dir := cities.New([]cities.City{
		{NameEn: "Riyadh", NameAr: "الرياض", Center: geo.Coordinate{Lat: 24.7136, Lon: 46.6753}},
	})
	svc := weather.NewService(cache.NewMemory(), dir, forecast, geocode, nil, weather.Settings{
		Bounds:     geo.SaudiBounds,
		WeatherTTL: time.Minute,
		PrayerTTL:  time.Hour,
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &decoded)
	}
	return resp.StatusCode, decoded
}

func riyadhForecast() *weather.ForecastPayload {
	temp := 31.0
	code := 0
	return &weather.ForecastPayload{
		Timezone: "Asia/Riyadh",
		CurrentWeather: &weather.CurrentWeather{
			Temperature: &temp,
			WeatherCode: &code,
			Time:        "2024-01-01T10:00",
		},
		Hourly: weather.HourlyBlock{
			Time:          []string{"2024-01-01T10:00"},
			Temperature2m: []*float64{&temp},
			WeatherCode:   []*int{&code},
		},
	}
}

func TestWeatherEndpoint(t *testing.T) {
	app := newTestApp(&stubForecast{payload: riyadhForecast()}, nil)

	status, body := doRequest(t, app, "/api/weather?lat=24.7136&lon=46.6753")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %v)", status, body)
	}
	if body["name"] != "Riyadh" {
		t.Errorf("name = %v, want Riyadh", body["name"])
	}
	hourly, ok := body["hourly"].(map[string]any)
	if !ok {
		t.Fatalf("hourly missing: %v", body)
	}
	times, _ := hourly["time"].([]any)
	if len(times) > 24 {
		t.Errorf("hourly time length = %d, want <= 24", len(times))
	}
}

func TestWeatherEndpointValidation(t *testing.T) {
	app := newTestApp(&stubForecast{payload: riyadhForecast()}, nil)

	cases := []struct {
		path     string
		wantCode string
	}{
		{"/api/weather", "missing_coords"},
		{"/api/weather?lat=abc&lon=46.7", "invalid_coords"},
		{"/api/weather?lat=95&lon=46.7", "lat_out_of_range"},
		{"/api/weather?lat=24.7&lon=-181", "lon_out_of_range"},
		{"/api/weather?lat=0&lon=0", "coords_out_of_bounds"},
	}
	for _, tc := range cases {
		status, body := doRequest(t, app, tc.path)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.path, status)
		}
		if body["error"] != tc.wantCode {
			t.Errorf("%s: error = %v, want %q", tc.path, body["error"], tc.wantCode)
		}
	}
}

func TestWeatherEndpointUpstreamFailure(t *testing.T) {
	app := newTestApp(&stubForecast{err: &providers.UpstreamError{Status: 500, Body: "oops"}}, nil)

	status, body := doRequest(t, app, "/api/weather?lat=24.7136&lon=46.6753")
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", status)
	}
	// Generic code only; upstream body stays in the logs.
	if body["error"] != "upstream_error" {
		t.Errorf("error = %v, want upstream_error", body["error"])
	}
}

func TestWeatherEndpointUpstreamTimeout(t *testing.T) {
	app := newTestApp(&stubForecast{err: providers.ErrUpstreamTimeout}, nil)

	status, body := doRequest(t, app, "/api/weather?lat=24.7136&lon=46.6753")
	if status != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", status)
	}
	if body["error"] != "upstream_timeout" {
		t.Errorf("error = %v, want upstream_timeout", body["error"])
	}
}

func TestSearchEndpoint(t *testing.T) {
	app := newTestApp(nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?q=riy", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var locations []weather.Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		t.Fatal(err)
	}
	if len(locations) != 1 || locations[0].Name != "Riyadh" {
		t.Fatalf("locations = %v", locations)
	}

	// Query-length violations are 400s.
	status, body := doRequest(t, app, "/api/search?q=r")
	if status != http.StatusBadRequest || body["error"] != "query_too_short" {
		t.Errorf("short query: status=%d body=%v", status, body)
	}
}

func TestReverseGeocodeEndpointFailOpen(t *testing.T) {
	app := newTestApp(nil, &stubGeocode{err: context.DeadlineExceeded})

	status, body := doRequest(t, app, "/api/reverse-geocode?lat=24.7136&lon=46.6753")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on geocode failure", status)
	}
	if body["name"] != "Unknown Location" {
		t.Errorf("name = %v, want Unknown Location", body["name"])
	}

	// Validation still rejects garbage.
	status, _ = doRequest(t, app, "/api/reverse-geocode?lat=abc&lon=def")
	if status != http.StatusBadRequest {
		t.Errorf("invalid coords: status = %d, want 400", status)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	app := newTestApp(nil, nil)

	status, body := doRequest(t, app, "/api/nope")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["error"] != "not_found" {
		t.Errorf("error = %v, want not_found", body["error"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(nil, nil)

	status, body := doRequest(t, app, "/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

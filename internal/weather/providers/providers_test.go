package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenMeteoFetchForecast(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"hourly":          q.Get("hourly"),
			"daily":           q.Get("daily"),
			"timezone":        q.Get("timezone"),
			"forecast_days":   q.Get("forecast_days"),
			"current_weather": q.Get("current_weather"),
			"latitude":        q.Get("latitude"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"timezone": "Asia/Riyadh",
			"current_weather": {"temperature": 31.2, "weathercode": 0, "is_day": 1, "time": "2024-01-01T10:00"},
			"hourly": {"time": ["2024-01-01T10:00"], "temperature_2m": [31.2], "weathercode": [0]},
			"daily": {"time": ["2024-01-01"], "weathercode": [0], "temperature_2m_max": [33.0], "temperature_2m_min": [19.5], "sunrise": ["2024-01-01T06:40"], "sunset": ["2024-01-01T17:50"]}
		}`))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(srv.Client(), srv.URL, "test-agent/1.0")
	p, err := c.FetchForecast(context.Background(), 24.7136, 46.6753)
	if err != nil {
		t.Fatalf("FetchForecast: %v", err)
	}

	if gotQuery["hourly"] != "temperature_2m,weathercode" {
		t.Errorf("hourly param = %q", gotQuery["hourly"])
	}
	if gotQuery["daily"] != "weathercode,temperature_2m_max,temperature_2m_min,sunrise,sunset" {
		t.Errorf("daily param = %q", gotQuery["daily"])
	}
	if gotQuery["timezone"] != "auto" || gotQuery["forecast_days"] != "7" || gotQuery["current_weather"] != "true" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if gotQuery["latitude"] != "24.7136" {
		t.Errorf("latitude param = %q", gotQuery["latitude"])
	}

	if p.Timezone != "Asia/Riyadh" {
		t.Errorf("timezone = %q", p.Timezone)
	}
	if p.CurrentWeather == nil || p.CurrentWeather.Temperature == nil || *p.CurrentWeather.Temperature != 31.2 {
		t.Errorf("current weather not decoded: %+v", p.CurrentWeather)
	}
	if len(p.Hourly.Time) != 1 || len(p.Daily.Time) != 1 {
		t.Errorf("series not decoded: hourly=%d daily=%d", len(p.Hourly.Time), len(p.Daily.Time))
	}
}

func TestOpenMeteoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"reason":"out of range"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(srv.Client(), srv.URL, "test-agent/1.0")
	_, err := c.FetchForecast(context.Background(), 24.7, 46.7)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if ue.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", ue.Status)
	}
	if ue.Body == "" {
		t.Error("error body should be retained for diagnostics")
	}
}

func TestOpenMeteoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	c := NewOpenMeteoClient(client, srv.URL, "test-agent/1.0")

	_, err := c.FetchForecast(context.Background(), 24.7, 46.7)
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Fatalf("error = %v, want ErrUpstreamTimeout", err)
	}
}

func TestNominatimReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("zoom") != "10" || q.Get("addressdetails") != "1" {
			t.Errorf("unexpected query: %v", q)
		}
		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Riyadh, Riyadh Region, Saudi Arabia",
			"address": {"city": "Riyadh", "country": "Saudi Arabia", "country_code": "sa"}
		}`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.Client(), srv.URL, "test-agent/1.0")
	p, err := c.ReverseGeocode(context.Background(), 24.7136, 46.6753)
	if err != nil {
		t.Fatalf("ReverseGeocode: %v", err)
	}
	if p.Address.City != "Riyadh" || p.Address.CountryCode != "sa" {
		t.Errorf("address not decoded: %+v", p.Address)
	}
	if p.DisplayName == "" {
		t.Error("display_name not decoded")
	}
}

func TestAladhanFetchTimings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path carries the date as DD-MM-YYYY.
		if r.URL.Path != "/v1/timings/01-09-2026" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("method") != "3" {
			t.Errorf("method = %q, want 3", r.URL.Query().Get("method"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"timings": {"Fajr": "04:45", "Sunrise": "06:05", "Dhuhr": "12:00", "Asr": "15:25", "Maghrib": "17:55", "Isha": "19:25"},
				"date": {"readable": "01 Sep 2026", "gregorian": {"date": "01-09-2026"}},
				"meta": {"method": {"name": "Muslim World League"}}
			}
		}`))
	}))
	defer srv.Close()

	c := NewAladhanClient(srv.Client(), srv.URL, "test-agent/1.0")
	date := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	p, err := c.FetchTimings(context.Background(), 24.7, 46.7, date)
	if err != nil {
		t.Fatalf("FetchTimings: %v", err)
	}
	if p.Timings.Fajr != "04:45" || p.Timings.Isha != "19:25" {
		t.Errorf("timings not decoded: %+v", p.Timings)
	}
	if p.Method != "Muslim World League" {
		t.Errorf("method = %q", p.Method)
	}
}

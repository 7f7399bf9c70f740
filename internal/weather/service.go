package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"saudi-weather-api/internal/cache"
	"saudi-weather-api/internal/cities"
	"saudi-weather-api/internal/geo"
)

// ForecastClient fetches a raw forecast for coordinates.
type ForecastClient interface {
	FetchForecast(ctx context.Context, lat, lon float64) (*ForecastPayload, error)
}

// GeocodeClient resolves coordinates to a raw address.
type GeocodeClient interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*AddressPayload, error)
}

// PrayerClient fetches prayer timings for coordinates and a date.
type PrayerClient interface {
	FetchTimings(ctx context.Context, lat, lon float64, date time.Time) (*PrayerPayload, error)
}

// Settings carries the request-independent policy for the Service.
type Settings struct {
	Bounds     geo.Bounds
	WeatherTTL time.Duration
	PrayerTTL  time.Duration
}

// Service coordinates weather requests: validation, cache, upstream fetch,
// normalization, and nearest-city name resolution. It holds no per-request
// state.
type Service struct {
	cache    cache.Store
	cities   *cities.Directory
	forecast ForecastClient
	geocode  GeocodeClient
	prayer   PrayerClient
	settings Settings

	// now is stubbed in tests
	now func() time.Time
}

// NewService wires the orchestrator from its collaborators.
func NewService(
	store cache.Store,
	directory *cities.Directory,
	forecast ForecastClient,
	geocode GeocodeClient,
	prayer PrayerClient,
	settings Settings,
) *Service {
	return &Service{
		cache:    store,
		cities:   directory,
		forecast: forecast,
		geocode:  geocode,
		prayer:   prayer,
		settings: settings,
		now:      time.Now,
	}
}

// GetWeather handles one weather request end to end. Validation and the
// service-region check happen before any cache or upstream access. Identical
// coordinates (after 4-decimal rounding) share a cache entry; concurrent
// misses for the same key each fetch independently, which is accepted since
// results are idempotent.
func (s *Service) GetWeather(ctx context.Context, latRaw, lonRaw string) (*Response, error) {
	c, err := geo.ParseCoordinates(latRaw, lonRaw)
	if err != nil {
		return nil, err
	}
	if !s.settings.Bounds.Contains(c) {
		return nil, geo.ErrOutOfBounds
	}

	latNorm := geo.Round4(c.Lat)
	lonNorm := geo.Round4(c.Lon)
	key := fmt.Sprintf("weather:%s:%s", formatCoord(latNorm), formatCoord(lonNorm))

	if b, ok := s.cache.Get(ctx, key); ok {
		var cached Response
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
		log.Printf("weather: discarding unreadable cache entry %q", key)
	}

	payload, err := s.forecast.FetchForecast(ctx, c.Lat, c.Lon)
	if err != nil {
		return nil, err
	}

	resp := Normalize(payload)
	s.resolveName(resp, c, latNorm, lonNorm)

	if b, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, b, s.settings.WeatherTTL)
	}

	return resp, nil
}

// resolveName sets the display name from the nearest city, falling back to
// the rounded-coordinate string when no city lies within range.
func (s *Service) resolveName(resp *Response, c geo.Coordinate, latNorm, lonNorm float64) {
	if city, _ := s.cities.FindNearest(c.Lat, c.Lon); city != nil {
		resp.Name = city.NameEn
		resp.NameAr = city.NameAr
		return
	}
	resp.Name = fmt.Sprintf("%s, %s", formatCoord(latNorm), formatCoord(lonNorm))
}

// SearchLocations returns up to 10 cities matching the query.
func (s *Service) SearchLocations(query string) ([]Location, error) {
	matches, err := s.cities.Search(query)
	if err != nil {
		return nil, err
	}

	out := make([]Location, 0, len(matches))
	for _, c := range matches {
		out = append(out, Location{
			Name:    c.NameEn,
			Lat:     c.Center.Lat,
			Lon:     c.Center.Lon,
			Country: "Saudi Arabia",
			Region:  "",
			Arabic:  c.NameAr,
		})
	}
	return out, nil
}

// unknownPlace is the fail-open reverse-geocode fallback.
var unknownPlace = Place{Name: "Unknown Location"}

// ReverseGeocode resolves a place name for coordinates. Validation errors
// surface; geocoder failures degrade to a generic fallback so the caller
// always gets a usable place.
func (s *Service) ReverseGeocode(ctx context.Context, latRaw, lonRaw string) (*Place, error) {
	c, err := geo.ParseCoordinates(latRaw, lonRaw)
	if err != nil {
		return nil, err
	}

	payload, err := s.geocode.ReverseGeocode(ctx, c.Lat, c.Lon)
	if err != nil {
		log.Printf("weather: reverse geocode failed for %v: %v", c, err)
		fallback := unknownPlace
		return &fallback, nil
	}

	addr := payload.Address
	name := firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Municipality, addr.County, addr.Suburb)
	if name == "" {
		name = unknownPlace.Name
	}

	display := payload.DisplayName
	if display == "" {
		display = name
	}

	return &Place{
		Name:        name,
		Country:     addr.Country,
		CountryCode: strings.ToUpper(addr.CountryCode),
		DisplayName: display,
	}, nil
}

// PrayerTimes returns today's prayer timings for coordinates, cached per day.
func (s *Service) PrayerTimes(ctx context.Context, latRaw, lonRaw string) (*PrayerPayload, error) {
	c, err := geo.ParseCoordinates(latRaw, lonRaw)
	if err != nil {
		return nil, err
	}
	if !s.settings.Bounds.Contains(c) {
		return nil, geo.ErrOutOfBounds
	}

	today := s.now()
	key := fmt.Sprintf("prayer:%s:%s:%s",
		formatCoord(geo.Round4(c.Lat)), formatCoord(geo.Round4(c.Lon)), today.Format("02-01-2006"))

	if b, ok := s.cache.Get(ctx, key); ok {
		var cached PrayerPayload
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
	}

	payload, err := s.prayer.FetchTimings(ctx, c.Lat, c.Lon, today)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(payload); err == nil {
		s.cache.Set(ctx, key, b, s.settings.PrayerTTL)
	}
	return payload, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package geo

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrNotANumber is returned when a coordinate does not parse as a finite number.
	ErrNotANumber = errors.New("invalid_coords")
	// ErrLatitudeOutOfRange is returned when latitude falls outside [-90, 90].
	ErrLatitudeOutOfRange = errors.New("lat_out_of_range")
	// ErrLongitudeOutOfRange is returned when longitude falls outside [-180, 180].
	ErrLongitudeOutOfRange = errors.New("lon_out_of_range")
	// ErrOutOfBounds is returned when coordinates are valid but outside the service region.
	ErrOutOfBounds = errors.New("coords_out_of_bounds")
)

// Coordinate is a geographic point (degrees).
type Coordinate struct {
	Lat float64
	Lon float64
}

// ParseCoordinates validates raw latitude/longitude strings and returns the
// parsed coordinate. It is pure and performs no I/O.
func ParseCoordinates(latRaw, lonRaw string) (Coordinate, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinate{}, ErrNotANumber
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, ErrNotANumber
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, ErrLatitudeOutOfRange
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, ErrLongitudeOutOfRange
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Bounds is a min/max latitude/longitude rectangle defining the supported
// service region.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// SaudiBounds covers the deployment's service region (Saudi Arabia).
var SaudiBounds = Bounds{MinLat: 16, MaxLat: 32, MinLon: 34, MaxLon: 56}

// Contains reports whether c lies inside the bounds (inclusive).
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Round4 rounds a coordinate component to 4 decimal places (~11m), used to
// normalize cache keys across near-identical requests.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

const earthRadiusKm = 6371

// DistanceKm returns the great-circle (haversine) distance between two
// coordinates in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

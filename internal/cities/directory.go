// Package cities holds the static city dataset and supports substring search
// and nearest-neighbor lookup over it.
package cities

import (
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"saudi-weather-api/internal/geo"
)

//go:embed data/saudi_cities.json
var embeddedCities []byte

var (
	// ErrQueryTooShort is returned when a trimmed search query is shorter than 2 runes.
	ErrQueryTooShort = errors.New("query_too_short")
	// ErrQueryTooLong is returned when a trimmed search query exceeds 64 runes.
	ErrQueryTooLong = errors.New("query_too_long")
)

// maxSearchResults caps the number of cities returned by Search.
const maxSearchResults = 10

// nearestThresholdKm is the maximum distance at which a city is still
// considered "nearby"; beyond it FindNearest returns nil rather than a
// misleading far-away name.
const nearestThresholdKm = 100

// City is a named location with a center coordinate. Records are read-only
// after load.
type City struct {
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
	Center geo.Coordinate
}

// cityRecord matches the on-disk dataset format, center as [lat, lon].
type cityRecord struct {
	NameEn string     `json:"name_en"`
	NameAr string     `json:"name_ar"`
	Center [2]float64 `json:"center"`
}

// Directory is an immutable, loaded-once list of cities. The dataset is small
// (low thousands at most), so search and nearest-neighbor are linear scans.
type Directory struct {
	cities []City

	// normalized names, index-aligned with cities, computed once at load
	normEn []string
	normAr []string
}

// Load reads the city dataset from path, falling back to the embedded dataset
// when path is empty. A load failure yields an empty directory, never an
// error: dependent operations degrade to "no match".
func Load(path string) *Directory {
	data := embeddedCities
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("cities: could not read dataset %q, using embedded: %v", path, err)
		} else {
			data = b
		}
	}

	var records []cityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("cities: could not parse dataset: %v", err)
		return New(nil)
	}

	list := make([]City, 0, len(records))
	for _, r := range records {
		list = append(list, City{
			NameEn: r.NameEn,
			NameAr: r.NameAr,
			Center: geo.Coordinate{Lat: r.Center[0], Lon: r.Center[1]},
		})
	}

	log.Printf("cities: loaded %d cities", len(list))
	return New(list)
}

// New builds a Directory from an explicit city list. Used directly in tests.
func New(list []City) *Directory {
	d := &Directory{
		cities: list,
		normEn: make([]string, len(list)),
		normAr: make([]string, len(list)),
	}
	for i, c := range list {
		d.normEn[i] = NormalizeName(c.NameEn)
		d.normAr[i] = NormalizeName(c.NameAr)
	}
	return d
}

// Len returns the number of loaded cities.
func (d *Directory) Len() int {
	return len(d.cities)
}

// Search returns up to 10 cities whose normalized English or Arabic name
// contains the normalized query, preserving dataset order.
func (d *Directory) Search(query string) ([]City, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < 2 {
		return nil, ErrQueryTooShort
	}
	if len([]rune(q)) > 64 {
		return nil, ErrQueryTooLong
	}

	nq := NormalizeName(q)

	var out []City
	for i, c := range d.cities {
		if strings.Contains(d.normEn[i], nq) || strings.Contains(d.normAr[i], nq) {
			out = append(out, c)
			if len(out) == maxSearchResults {
				break
			}
		}
	}
	return out, nil
}

// FindNearest returns the city with minimum haversine distance to the given
// point, or nil when no city lies within 100 km. Exact distance ties go to
// the first city in dataset order.
func (d *Directory) FindNearest(lat, lon float64) (*City, float64) {
	p := geo.Coordinate{Lat: lat, Lon: lon}

	var best *City
	bestDist := 0.0
	for i := range d.cities {
		dist := geo.DistanceKm(p, d.cities[i].Center)
		if best == nil || dist < bestDist {
			best = &d.cities[i]
			bestDist = dist
		}
	}

	if best == nil || bestDist > nearestThresholdKm {
		return nil, 0
	}
	return best, bestDist
}

// nameNormalizer decomposes to NFD, removes combining marks (covers Latin
// accents and Arabic harakat), and recomposes. Safe for concurrent use via
// transform.String.
var nameNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName strips diacritics and lowercases a name so mixed
// Arabic/English and accented input match consistently.
func NormalizeName(s string) string {
	out, _, err := transform.String(nameNormalizer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

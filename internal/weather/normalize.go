package weather

import (
	"math"
	"time"
)

// hourlyLimit truncates the hourly strip to one day regardless of how many
// entries the provider returns.
const hourlyLimit = 24

// Normalize reshapes a raw forecast payload into the stable response
// contract. It never fails: missing upstream fields resolve to nulls or empty
// sequences. The Name fields are left for the caller to resolve.
func Normalize(p *ForecastPayload) *Response {
	current := CurrentWeather{}
	if p.CurrentWeather != nil {
		current = *p.CurrentWeather
	}

	idx := alignCurrentIndex(current.Time, p.Hourly.Time)

	resp := &Response{
		Timezone: p.Timezone,
		Dt:       normalizeDt(current.Time, p.Hourly.Time),
		IsDay:    normalizeIsDay(current.IsDay),
		Current: Current{
			Temperature: currentTemperature(current.Temperature, p.Hourly.Temperature2m, idx),
			WeatherCode: currentWeatherCode(current.WeatherCode, p.Hourly.WeatherCode, idx),
			Description: describeConditions(current.WeatherCode, p.Daily.WeatherCode),
		},
		Hourly: Hourly{
			Time:        truncateStrings(p.Hourly.Time, hourlyLimit),
			Temperature: roundEach(truncateFloats(p.Hourly.Temperature2m, hourlyLimit)),
			WeatherCode: truncateInts(p.Hourly.WeatherCode, hourlyLimit),
		},
		Daily: Daily{
			Time:        emptyIfNilStrings(p.Daily.Time),
			WeatherCode: emptyIfNilInts(p.Daily.WeatherCode),
			TempMax:     roundEach(emptyIfNilFloats(p.Daily.Temperature2mMax)),
			TempMin:     roundEach(emptyIfNilFloats(p.Daily.Temperature2mMin)),
			Sunrise:     emptyIfNilStrings(p.Daily.Sunrise),
			Sunset:      emptyIfNilStrings(p.Daily.Sunset),
		},
	}

	return resp
}

// alignCurrentIndex matches the current-conditions timestamp to an index in
// the hourly time series: exact string match first, then nearest timestamp by
// absolute difference (ties to the first occurrence). Returns -1 when no
// alignment is possible.
func alignCurrentIndex(currentTime string, hourlyTimes []string) int {
	if currentTime == "" || len(hourlyTimes) == 0 {
		return -1
	}

	for i, t := range hourlyTimes {
		if t == currentTime {
			return i
		}
	}

	ct, ok := parseLocalTime(currentTime)
	if !ok {
		return -1
	}

	idx := -1
	best := time.Duration(math.MaxInt64)
	for i, t := range hourlyTimes {
		ht, ok := parseLocalTime(t)
		if !ok {
			continue
		}
		d := ct.Sub(ht)
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
			idx = i
		}
	}
	return idx
}

// parseLocalTime handles Open-Meteo's zone-less local timestamps
// ("2006-01-02T15:04") and falls back to RFC3339.
func parseLocalTime(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func normalizeDt(currentTime string, hourlyTimes []string) *string {
	if currentTime != "" {
		return &currentTime
	}
	if len(hourlyTimes) > 0 {
		return &hourlyTimes[0]
	}
	return nil
}

func normalizeIsDay(isDay *int) *bool {
	if isDay == nil {
		return nil
	}
	v := *isDay == 1
	return &v
}

// currentTemperature prefers the current-conditions reading and falls back
// to the aligned hourly reading. Either way the result is rounded to one
// decimal place.
func currentTemperature(current *float64, hourly []*float64, idx int) *float64 {
	if current != nil {
		return round1(*current)
	}
	if idx >= 0 && idx < len(hourly) && hourly[idx] != nil {
		return round1(*hourly[idx])
	}
	return nil
}

func currentWeatherCode(current *int, hourly []*int, idx int) *int {
	if current != nil {
		return current
	}
	if idx >= 0 && idx < len(hourly) && hourly[idx] != nil {
		return hourly[idx]
	}
	return nil
}

// describeConditions prefers the current-conditions code and falls back to
// the first daily code. Unmapped or absent codes resolve to "Unknown".
func describeConditions(current *int, daily []*int) string {
	if current != nil {
		return DescribeCode(*current)
	}
	if len(daily) > 0 && daily[0] != nil {
		return DescribeCode(*daily[0])
	}
	return descriptionUnknown
}

func round1(v float64) *float64 {
	r := math.Round(v*10) / 10
	return &r
}

func roundEach(vals []*float64) []*float64 {
	for i, v := range vals {
		if v != nil {
			vals[i] = round1(*v)
		}
	}
	return vals
}

func truncateStrings(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return emptyIfNilStrings(s)
}

func truncateFloats(s []*float64, n int) []*float64 {
	if len(s) > n {
		s = s[:n]
	}
	return emptyIfNilFloats(s)
}

func truncateInts(s []*int, n int) []*int {
	if len(s) > n {
		s = s[:n]
	}
	return emptyIfNilInts(s)
}

// The empty-if-nil helpers keep absent upstream series rendering as [] in
// JSON instead of null.

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilFloats(s []*float64) []*float64 {
	if s == nil {
		return []*float64{}
	}
	return s
}

func emptyIfNilInts(s []*int) []*int {
	if s == nil {
		return []*int{}
	}
	return s
}

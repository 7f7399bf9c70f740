package weather

// ForecastPayload is the raw Open-Meteo forecast response. Every field the
// provider may omit is optional here; Normalize enumerates the defaults.
type ForecastPayload struct {
	Timezone       string          `json:"timezone"`
	CurrentWeather *CurrentWeather `json:"current_weather"`
	Hourly         HourlyBlock     `json:"hourly"`
	Daily          DailyBlock      `json:"daily"`
}

// CurrentWeather is Open-Meteo's current-conditions block.
type CurrentWeather struct {
	Temperature *float64 `json:"temperature"`
	WeatherCode *int     `json:"weathercode"`
	IsDay       *int     `json:"is_day"`
	Time        string   `json:"time"`
}

// HourlyBlock carries index-aligned hourly series. Individual readings can be
// null, hence the pointer elements.
type HourlyBlock struct {
	Time          []string   `json:"time"`
	Temperature2m []*float64 `json:"temperature_2m"`
	WeatherCode   []*int     `json:"weathercode"`
}

// DailyBlock carries index-aligned daily series for the forecast horizon.
type DailyBlock struct {
	Time             []string   `json:"time"`
	WeatherCode      []*int     `json:"weathercode"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	Sunrise          []string   `json:"sunrise"`
	Sunset           []string   `json:"sunset"`
}

// Response is the stable contract returned to clients regardless of which
// upstream fields were present. Missing values render as JSON null, never as
// absent keys.
type Response struct {
	Name     string  `json:"name"`
	NameAr   string  `json:"nameAr,omitempty"`
	Dt       *string `json:"dt"`
	IsDay    *bool   `json:"isDay"`
	Timezone string  `json:"timezone"`
	Current  Current `json:"current"`
	Hourly   Hourly  `json:"hourly"`
	Daily    Daily   `json:"daily"`
}

// Current is the normalized current-conditions view.
type Current struct {
	Temperature *float64 `json:"temperature"`
	WeatherCode *int     `json:"weatherCode"`
	Description string   `json:"description"`
}

// Hourly is the normalized hourly strip, truncated to one day.
type Hourly struct {
	Time        []string   `json:"time"`
	Temperature []*float64 `json:"temperature"`
	WeatherCode []*int     `json:"weatherCode"`
}

// Daily is the normalized daily strip for the full forecast horizon.
type Daily struct {
	Time        []string   `json:"time"`
	WeatherCode []*int     `json:"weatherCode"`
	TempMax     []*float64 `json:"tempMax"`
	TempMin     []*float64 `json:"tempMin"`
	Sunrise     []string   `json:"sunrise"`
	Sunset      []string   `json:"sunset"`
}

// Location is a single search result entry.
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	Region  string  `json:"region"`
	Arabic  string  `json:"arabic"`
}

// AddressPayload is the raw Nominatim reverse-geocode response.
type AddressPayload struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// Address holds the Nominatim address fields place resolution cares about.
type Address struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	Suburb       string `json:"suburb"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

// Place is the reverse-geocode result returned to clients.
type Place struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	DisplayName string `json:"displayName"`
}

// PrayerTimings holds the daily prayer times in HH:MM local time.
type PrayerTimings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// PrayerPayload is the prayer-times result for a single day.
type PrayerPayload struct {
	Timings PrayerTimings `json:"timings"`
	Date    string        `json:"date"`
	Method  string        `json:"method"`
}

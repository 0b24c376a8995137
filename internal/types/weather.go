package types

import "time"

// ResolvedLocation is the output of geocoding: coordinates plus a single
// canonical display name (never the raw multi-part query).
type ResolvedLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// WeatherSnapshot is the normalized current-conditions record consumed by the
// activity synthesizer. Units are canonical: °C and m/s, regardless of what
// the upstream service reports natively.
//
// Invariants held by every snapshot the weather service produces:
// WindGust >= WindSpeed, 0 <= Humidity <= 100, Conditions is never empty.
type WeatherSnapshot struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindGust      float64 `json:"wind_gust"`
	ConditionCode int     `json:"condition_code"`
	Conditions    string  `json:"conditions"`
	Location      string  `json:"location"`
}

// ForecastDay is one day of the daily forecast window.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	MaxTemp       float64   `json:"max_temp"`
	MinTemp       float64   `json:"min_temp"`
	ConditionCode int       `json:"condition_code"`
	Conditions    string    `json:"conditions"`
}

// ForecastWindow is a chronologically ordered run of daily forecasts,
// bounded to 1..7 days.
type ForecastWindow []ForecastDay

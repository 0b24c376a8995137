package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWeatherCode(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{0, "Clear sky"},
		{1, "Mainly clear"},
		{2, "Partly cloudy"},
		{3, "Overcast"},
		{45, "Foggy"},
		{48, "Depositing rime fog"},
		{51, "Light drizzle"},
		{53, "Moderate drizzle"},
		{55, "Dense drizzle"},
		{56, "Light freezing drizzle"},
		{57, "Dense freezing drizzle"},
		{61, "Slight rain"},
		{63, "Moderate rain"},
		{65, "Heavy rain"},
		{66, "Light freezing rain"},
		{67, "Heavy freezing rain"},
		{71, "Slight snow fall"},
		{73, "Moderate snow fall"},
		{75, "Heavy snow fall"},
		{77, "Snow grains"},
		{80, "Slight rain showers"},
		{81, "Moderate rain showers"},
		{82, "Violent rain showers"},
		{85, "Slight snow showers"},
		{86, "Heavy snow showers"},
		{95, "Thunderstorm"},
		{96, "Thunderstorm with slight hail"},
		{99, "Thunderstorm with heavy hail"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, ClassifyWeatherCode(tc.code), "code %d", tc.code)
	}
}

func TestClassifyWeatherCodeUnmapped(t *testing.T) {
	// Total function: anything outside the table gets the literal fallback.
	for _, code := range []int{-1, 4, 42, 50, 90, 100, 1234} {
		assert.Equal(t, "Unknown", ClassifyWeatherCode(code), "code %d", code)
	}
}

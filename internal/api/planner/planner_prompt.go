package planner

import (
	"fmt"
	"strings"

	"github.com/brightsky/go-activity-planner/internal/types"
)

func buildActivityPlanPrompt(snapshot *types.WeatherSnapshot, window types.ForecastWindow) string {
	var forecast strings.Builder
	for _, day := range window {
		forecast.WriteString(fmt.Sprintf("            - %s: %s, high %.1f°C, low %.1f°C\n",
			day.Date.Format("2006-01-02"), day.Conditions, day.MaxTemp, day.MinTemp))
	}

	return fmt.Sprintf(`
            You are a local activity planner. Suggest real, well-known venues and activities in %s for today.
            Current weather: %s, temperature %.1f°C (feels like %.1f°C), humidity %.0f%%, wind %.1f m/s gusting to %.1f m/s.
            Upcoming days:
%s
            Recommend 2-3 outdoor activities for the morning, 2-3 for the afternoon, and 2-3 indoor alternatives.
            If the conditions involve rain, snow, drizzle or thunderstorms, the indoor list is mandatory and must favor covered venues.
            Return the response STRICTLY as a JSON object with:
            {
            "summary": {
                "conditions": "Short description of today's conditions",
                "temp_range_c": "e.g. 18-24°C",
                "temp_range_f": "e.g. 64-75°F",
                "precip_chance": "e.g. 20%%"
            },
            "morning": [
                {
                "name": "Name of the activity or venue",
                "description": "A 1-2 sentence description of the activity and why it suits the weather.",
                "location": "Neighborhood or address in %s",
                "timing": "Suggested time window, e.g. 09:00-11:00",
                "note": "Optional practical tip"
                }
            ],
            "afternoon": [ same shape as morning ],
            "indoor": [ same shape as morning ],
            "warnings": ["Optional weather-related cautions"]
            }`,
		snapshot.Location,
		snapshot.Conditions, snapshot.Temperature, snapshot.FeelsLike, snapshot.Humidity, snapshot.WindSpeed, snapshot.WindGust,
		forecast.String(),
		snapshot.Location)
}

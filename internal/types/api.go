package types

// WeatherRequest is the tool invocation contract: a free-text location in,
// a flat WeatherSnapshot out.
type WeatherRequest struct {
	Location string `json:"location" binding:"required" example:"Tokyo"` // Free-text place name, may be multi-part or non-English.
}

// PlanRequest is the workflow invocation contract: a city in, an ActivityPlan out.
type PlanRequest struct {
	City string `json:"city" binding:"required" example:"Lisbon"` // Free-text city name.
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`                           // Indicates if the operation was successful.
	Message string `json:"message,omitempty" example:"Operation successful"` // Optional success message.
	Error   string `json:"error,omitempty" example:"Resource not found"`     // Optional error message.
}

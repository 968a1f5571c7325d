package model

// ================ Config ================

// ConversationConfig bounds a single planning conversation.
type ConversationConfig struct {
	Tools struct {
		// MaxCalls caps tool dispatches within one conversation attempt.
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"5"`
	}
	// TimeoutSeconds is the deadline for one full planning request including
	// retries. Zero disables the deadline.
	TimeoutSeconds int `envconfig:"CONVERSATION_TIMEOUT_SECONDS" default:"120"`
}

// PlannerModelConfig configures the Gemini model used for itinerary generation.
type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"8000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.4"`
}

// RetryConfig controls the retry controller around one logical request.
// The delay stays flat rather than exponential; rate-limit windows on the
// model API are short enough that a constant pause is adequate.
type RetryConfig struct {
	MaxAttempts  int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	DelaySeconds int `envconfig:"RETRY_DELAY_SECONDS" default:"2"`
}

// ToolsConfig carries credentials and endpoints for the tool executors.
// Base URLs are overridable so tests can point them at local stubs.
type ToolsConfig struct {
	RapidAPIKey           string `envconfig:"RAPIDAPI_KEY"`
	HotelBaseURL          string `envconfig:"HOTEL_API_BASE_URL" default:"https://booking-com.p.rapidapi.com"`
	HotelTimeoutSeconds   int    `envconfig:"HOTEL_API_TIMEOUT_SECONDS" default:"20"`
	OpenWeatherKey        string `envconfig:"OPENWEATHER_API_KEY"`
	WeatherBaseURL        string `envconfig:"WEATHER_API_BASE_URL" default:"https://api.openweathermap.org"`
	WeatherTimeoutSeconds int    `envconfig:"WEATHER_API_TIMEOUT_SECONDS" default:"10"`
}

package models

// WeatherRecord holds one weather observation as returned by the lookup
// service. Visibility is nil when the upstream API omits it.
type WeatherRecord struct {
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Temperature float64  `json:"temperature"`
	FeelsLike   float64  `json:"feels_like"`
	Humidity    int      `json:"humidity"`
	Pressure    int      `json:"pressure"`
	Description string   `json:"description"`
	WindSpeed   float64  `json:"wind_speed"`
	Visibility  *float64 `json:"visibility,omitempty"`
	Units       string   `json:"units"`
}

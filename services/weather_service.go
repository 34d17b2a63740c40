package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docuchat/agent/models"
)

// WeatherProvider is the narrow capability the agent needs from a
// weather backend. Production uses OpenWeatherClient; tests plug in a
// deterministic stub.
type WeatherProvider interface {
	Lookup(ctx context.Context, city, units string) (*models.WeatherRecord, error)
}

// OpenWeatherClient fetches current conditions from the OpenWeatherMap
// REST API. The underlying http.Client carries a bounded timeout so a
// lookup can never block indefinitely.
type OpenWeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewOpenWeatherClient(client *http.Client, baseURL, apiKey string) *OpenWeatherClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeatherClient{
		httpClient: client,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// openWeatherResponse mirrors the subset of the OpenWeatherMap payload
// this service reads.
type openWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *int `json:"visibility"`
}

// Lookup implements WeatherProvider.
func (w *OpenWeatherClient) Lookup(ctx context.Context, city, units string) (*models.WeatherRecord, error) {
	if units == "" {
		units = "metric"
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("units", units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("unexpected weather api response format: %w", err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("unexpected weather api response format: missing conditions")
	}

	record := &models.WeatherRecord{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		Description: payload.Weather[0].Description,
		WindSpeed:   payload.Wind.Speed,
		Units:       units,
	}
	if payload.Visibility != nil {
		km := float64(*payload.Visibility) / 1000
		record.Visibility = &km
	}
	return record, nil
}

// FormatWeatherReport renders a WeatherRecord into the fixed multi-line
// report shown to the user.
func FormatWeatherReport(rec *models.WeatherRecord) string {
	unitSymbol := "°C"
	if rec.Units != "metric" {
		unitSymbol = "°F"
	}

	visibilityText := "—"
	if rec.Visibility != nil {
		visibilityText = fmt.Sprintf("%.1f km", *rec.Visibility)
	}

	windKmh := rec.WindSpeed * 3.6

	lines := []string{
		fmt.Sprintf("**🌦 Weather · %s, %s**", rec.City, rec.Country),
		"",
		fmt.Sprintf("- **Temperature:** %.1f%s (feels like %.1f%s)", rec.Temperature, unitSymbol, rec.FeelsLike, unitSymbol),
		fmt.Sprintf("- **Conditions:** %s", titleCase(rec.Description)),
		fmt.Sprintf("- **Humidity / Pressure:** %d%% · %d hPa", rec.Humidity, rec.Pressure),
		fmt.Sprintf("- **Wind:** %.1f m/s (%.1f km/h)", rec.WindSpeed, windKmh),
		fmt.Sprintf("- **Visibility:** %s", visibilityText),
	}
	return strings.Join(lines, "\n")
}

// MissingCityMessage is returned when no city could be extracted from a
// weather query. No lookup is attempted in that case.
const MissingCityMessage = "I couldn't identify a city name in your query. Please specify a city, for example: 'What's the weather in London?'"

// WeatherAnswerBuilder turns a weather-routed query into a user-facing
// report. Lookup failures become an apology string, never an error.
type WeatherAnswerBuilder struct {
	provider WeatherProvider
	units    string
}

func NewWeatherAnswerBuilder(provider WeatherProvider, units string) *WeatherAnswerBuilder {
	if units == "" {
		units = "metric"
	}
	return &WeatherAnswerBuilder{provider: provider, units: units}
}

// Build always returns a response string; every failure mode is folded
// into the text.
func (b *WeatherAnswerBuilder) Build(ctx context.Context, query string) string {
	city := ExtractCity(query)
	if city == "" {
		return MissingCityMessage
	}

	record, err := b.provider.Lookup(ctx, city, b.units)
	if err != nil {
		log.Printf("SERVICE: weather lookup for %q failed: %v", city, err)
		return fmt.Sprintf("Sorry, I encountered an error fetching weather data: %v", err)
	}
	return FormatWeatherReport(record)
}

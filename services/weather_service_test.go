package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openWeatherFixture = `{
	"name": "London",
	"sys": {"country": "GB"},
	"main": {"temp": 15.5, "feels_like": 14.2, "humidity": 65, "pressure": 1013},
	"weather": [{"description": "clear sky"}],
	"wind": {"speed": 3.5},
	"visibility": 10000
}`

func TestOpenWeatherClientLookup(t *testing.T) {
	var gotQuery, gotUnits, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUnits = r.URL.Query().Get("units")
		gotKey = r.URL.Query().Get("appid")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openWeatherFixture))
	}))
	defer server.Close()

	client := NewOpenWeatherClient(server.Client(), server.URL, "test-key")
	record, err := client.Lookup(context.Background(), "London", "metric")
	require.NoError(t, err)

	assert.Equal(t, "London", gotQuery)
	assert.Equal(t, "metric", gotUnits)
	assert.Equal(t, "test-key", gotKey)

	assert.Equal(t, "London", record.City)
	assert.Equal(t, "GB", record.Country)
	assert.InDelta(t, 15.5, record.Temperature, 1e-9)
	assert.InDelta(t, 14.2, record.FeelsLike, 1e-9)
	assert.Equal(t, 65, record.Humidity)
	assert.Equal(t, 1013, record.Pressure)
	assert.Equal(t, "clear sky", record.Description)
	assert.InDelta(t, 3.5, record.WindSpeed, 1e-9)
	require.NotNil(t, record.Visibility)
	assert.InDelta(t, 10.0, *record.Visibility, 1e-9)
	assert.Equal(t, "metric", record.Units)
}

func TestOpenWeatherClientLookupNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"city not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOpenWeatherClient(server.Client(), server.URL, "test-key")
	_, err := client.Lookup(context.Background(), "Nowhere", "metric")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
	assert.Contains(t, err.Error(), "city not found")
}

func TestOpenWeatherClientLookupMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "London", "weather": []}`))
	}))
	defer server.Close()

	client := NewOpenWeatherClient(server.Client(), server.URL, "test-key")
	_, err := client.Lookup(context.Background(), "London", "metric")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected weather api response format")
}

func TestFormatWeatherReport(t *testing.T) {
	report := FormatWeatherReport(metricRecord())

	assert.Contains(t, report, "Tokyo, JP")
	assert.Contains(t, report, "20.0°C")
	assert.Contains(t, report, "feels like 19.5°C")
	assert.Contains(t, report, "Clear Sky")
	assert.Contains(t, report, "50% · 1013 hPa")
	assert.Contains(t, report, "2.0 m/s (7.2 km/h)")
	assert.Contains(t, report, "10.0 km")
}

func TestFormatWeatherReportNoVisibility(t *testing.T) {
	rec := metricRecord()
	rec.Visibility = nil
	assert.Contains(t, FormatWeatherReport(rec), "- **Visibility:** —")
}

func TestFormatWeatherReportImperialUnits(t *testing.T) {
	rec := metricRecord()
	rec.Units = "imperial"
	assert.Contains(t, FormatWeatherReport(rec), "20.0°F")
}

func TestWeatherAnswerBuilder(t *testing.T) {
	stub := &stubWeather{record: metricRecord()}
	builder := NewWeatherAnswerBuilder(stub, "metric")

	response := builder.Build(context.Background(), "weather in Tokyo")
	assert.Contains(t, response, "Tokyo")
	assert.Contains(t, response, "20.0°C")
	assert.Equal(t, "Tokyo", stub.lastCity)
	assert.Equal(t, "metric", stub.lastUnits)
}

func TestWeatherAnswerBuilderMissingCity(t *testing.T) {
	stub := &stubWeather{record: metricRecord()}
	builder := NewWeatherAnswerBuilder(stub, "metric")

	// "rain" routes to weather but carries no anchor, so no lookup is
	// spent on it.
	response := builder.Build(context.Background(), "rain")
	assert.Equal(t, MissingCityMessage, response)
	assert.Zero(t, stub.calls)
}

func TestWeatherAnswerBuilderLookupFailure(t *testing.T) {
	stub := &stubWeather{err: errors.New("connection refused")}
	builder := NewWeatherAnswerBuilder(stub, "metric")

	response := builder.Build(context.Background(), "weather in Tokyo")
	assert.Contains(t, response, "Sorry, I encountered an error fetching weather data")
	assert.Contains(t, response, "connection refused")
}

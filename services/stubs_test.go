package services

import (
	"context"

	"github.com/docuchat/agent/models"
)

// stubWeather returns a fixed record or error without any network call.
type stubWeather struct {
	record *models.WeatherRecord
	err    error

	lastCity  string
	lastUnits string
	calls     int
}

func (s *stubWeather) Lookup(_ context.Context, city, units string) (*models.WeatherRecord, error) {
	s.lastCity = city
	s.lastUnits = units
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

// stubIndex serves canned retrieval results and records writes.
type stubIndex struct {
	results []models.RetrievedChunk
	hashes  map[string]string
	err     error

	upserted  []models.Chunk
	deleted   []string
	lastQuery string
	lastK     int
}

func (s *stubIndex) Upsert(_ context.Context, chunks []models.Chunk) error {
	s.upserted = append(s.upserted, chunks...)
	return s.err
}

func (s *stubIndex) Search(_ context.Context, query string, k int) ([]models.RetrievedChunk, error) {
	s.lastQuery = query
	s.lastK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubIndex) SourceHashes(context.Context) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.hashes == nil {
		return map[string]string{}, nil
	}
	return s.hashes, nil
}

func (s *stubIndex) DeleteBySource(_ context.Context, filePath string) error {
	s.deleted = append(s.deleted, filePath)
	return s.err
}

func (s *stubIndex) Clear(context.Context) error        { return s.err }
func (s *stubIndex) Count(context.Context) (int, error) { return len(s.results), s.err }

// stubCompleter records the prompts it was given and echoes a canned
// answer.
type stubCompleter struct {
	answer string
	err    error

	lastSystem string
	lastUser   string
	calls      int
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func metricRecord() *models.WeatherRecord {
	visibility := 10.0
	return &models.WeatherRecord{
		City:        "Tokyo",
		Country:     "JP",
		Temperature: 20.0,
		FeelsLike:   19.5,
		Humidity:    50,
		Pressure:    1013,
		Description: "clear sky",
		WindSpeed:   2.0,
		Visibility:  &visibility,
		Units:       "metric",
	}
}

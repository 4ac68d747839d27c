package store

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"gopkg.in/yaml.v3"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

//go:embed seed/trips.yaml
var defaultTripSeed []byte

type tripSeedFile struct {
	Trips []tripSeed `yaml:"trips"`
}

type tripSeed struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	ImageURL  string `yaml:"image_url"`
	IsActive  bool   `yaml:"is_active"`
}

// DefaultTrips returns the trips embedded in the binary.
func DefaultTrips() ([]domain.Trip, error) {
	return parseTripSeed(defaultTripSeed)
}

// LoadTripSeed reads trips from a YAML seed file at path.
func LoadTripSeed(path string) ([]domain.Trip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store.LoadTripSeed: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("store.LoadTripSeed: %w", err)
	}
	trips, err := parseTripSeed(raw)
	if err != nil {
		return nil, fmt.Errorf("store.LoadTripSeed: %s: %w", path, err)
	}
	return trips, nil
}

func parseTripSeed(raw []byte) ([]domain.Trip, error) {
	var file tripSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse trip seed: %w", err)
	}

	trips := make([]domain.Trip, 0, len(file.Trips))
	for i, ts := range file.Trips {
		start, err := time.Parse(openapi_types.DateFormat, ts.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: trip %d: start_date: %v", domain.ErrValidation, i, err)
		}
		end, err := time.Parse(openapi_types.DateFormat, ts.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: trip %d: end_date: %v", domain.ErrValidation, i, err)
		}
		if ts.ID == "" || ts.Name == "" {
			return nil, fmt.Errorf("%w: trip %d: id and name are required", domain.ErrValidation, i)
		}

		t := domain.Trip{
			ID:        ts.ID,
			Name:      ts.Name,
			StartDate: openapi_types.Date{Time: start},
			EndDate:   openapi_types.Date{Time: end},
			IsActive:  ts.IsActive,
		}
		if ts.ImageURL != "" {
			url := ts.ImageURL
			t.ImageURL = &url
		}
		trips = append(trips, t)
	}
	return trips, nil
}

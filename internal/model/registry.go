package model

import "fmt"

// ArtifactPaths names the five artifact files the registry loads.
type ArtifactPaths struct {
	AnemiaScaler   string
	AnemiaModel    string
	BrainModel     string
	DiabetesScaler string
	DiabetesModel  string
}

// Registry holds every model artifact, loaded once at startup and shared
// read-only across request handlers.
type Registry struct {
	AnemiaScaler   Scaler
	AnemiaModel    Predictor
	BrainModel     Predictor
	DiabetesScaler Scaler
	DiabetesModel  Predictor
}

// LoadRegistry deserializes all artifacts. Any failure is returned as-is so
// startup can abort; artifacts are a hard dependency of every pipeline.
func LoadRegistry(paths ArtifactPaths) (*Registry, error) {
	anemiaScaler, err := LoadScaler(paths.AnemiaScaler)
	if err != nil {
		return nil, fmt.Errorf("anemia scaler: %w", err)
	}
	anemiaModel, err := LoadPredictor(paths.AnemiaModel)
	if err != nil {
		return nil, fmt.Errorf("anemia model: %w", err)
	}
	brainModel, err := LoadPredictor(paths.BrainModel)
	if err != nil {
		return nil, fmt.Errorf("brain model: %w", err)
	}
	diabetesScaler, err := LoadScaler(paths.DiabetesScaler)
	if err != nil {
		return nil, fmt.Errorf("diabetes scaler: %w", err)
	}
	diabetesModel, err := LoadPredictor(paths.DiabetesModel)
	if err != nil {
		return nil, fmt.Errorf("diabetes model: %w", err)
	}

	return &Registry{
		AnemiaScaler:   anemiaScaler,
		AnemiaModel:    anemiaModel,
		BrainModel:     brainModel,
		DiabetesScaler: diabetesScaler,
		DiabetesModel:  diabetesModel,
	}, nil
}

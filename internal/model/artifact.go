package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
)

var (
	// ErrArtifactUnavailable indicates a missing or unreadable artifact file.
	ErrArtifactUnavailable = errors.New("artifact unavailable")
	// ErrArtifactIncompatible indicates an artifact that lacks the requested
	// capability or does not match the input shape.
	ErrArtifactIncompatible = errors.New("artifact incompatible")
)

// Artifact kinds stored in the envelope.
const (
	KindStandardScaler = "standard-scaler"
	KindLinearModel    = "linear-model"
)

// Linear model output modes.
const (
	OutputStep    = "step"
	OutputSigmoid = "sigmoid"
)

// Scaler normalizes a raw feature vector to the distribution the model
// was trained on.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// Predictor produces a raw model output for a feature vector.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Envelope is the on-disk artifact format. Exactly one payload field is set,
// selected by Kind.
type Envelope struct {
	Kind   string
	Scaler *StandardScaler
	Linear *LinearModel
}

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("%w: scaler mean/scale length mismatch", ErrArtifactIncompatible)
	}
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrArtifactIncompatible, len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		if s.Scale[i] == 0 {
			return nil, fmt.Errorf("%w: zero scale for feature %d", ErrArtifactIncompatible, i)
		}
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// LinearModel is a single-layer model over a fixed-length input. Output
// selects how the activation is folded: step yields 0/1, sigmoid yields a
// probability.
type LinearModel struct {
	Weights []float64
	Bias    float64
	Output  string
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrArtifactIncompatible, len(m.Weights), len(features))
	}
	z := m.Bias
	for i, v := range features {
		z += m.Weights[i] * v
	}
	switch m.Output {
	case OutputStep:
		if z > 0 {
			return 1, nil
		}
		return 0, nil
	case OutputSigmoid:
		return 1 / (1 + math.Exp(-z)), nil
	default:
		return 0, fmt.Errorf("%w: unknown output mode %q", ErrArtifactIncompatible, m.Output)
	}
}

// LoadScaler deserializes a scaler artifact from a trusted local path.
func LoadScaler(path string) (Scaler, error) {
	env, err := loadEnvelope(path)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindStandardScaler || env.Scaler == nil {
		return nil, fmt.Errorf("%w: %s holds %q, want scaler", ErrArtifactIncompatible, path, env.Kind)
	}
	return env.Scaler, nil
}

// LoadPredictor deserializes a model artifact from a trusted local path.
func LoadPredictor(path string) (Predictor, error) {
	env, err := loadEnvelope(path)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindLinearModel || env.Linear == nil {
		return nil, fmt.Errorf("%w: %s holds %q, want model", ErrArtifactIncompatible, path, env.Kind)
	}
	return env.Linear, nil
}

// SaveEnvelope serializes an artifact. Used by tooling and tests; the server
// only reads artifacts.
func SaveEnvelope(path string, env *Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(env); err != nil {
		return fmt.Errorf("encode artifact %s: %w", path, err)
	}
	return nil
}

func loadEnvelope(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrArtifactUnavailable, path, err)
	}
	defer f.Close()

	var env Envelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrArtifactUnavailable, path, err)
	}
	return &env, nil
}

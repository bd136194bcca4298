package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, name string, env *Envelope) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, SaveEnvelope(path, env))
	return path
}

func TestLoadScalerRoundTrip(t *testing.T) {
	path := writeArtifact(t, "scaler.gob", &Envelope{
		Kind:   KindStandardScaler,
		Scaler: &StandardScaler{Mean: []float64{1, 2}, Scale: []float64{2, 4}},
	})

	scaler, err := LoadScaler(path)
	require.NoError(t, err)

	out, err := scaler.Transform([]float64{3, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out)
}

func TestLoadPredictorStepAndSigmoid(t *testing.T) {
	stepPath := writeArtifact(t, "step.gob", &Envelope{
		Kind:   KindLinearModel,
		Linear: &LinearModel{Weights: []float64{1, 1}, Bias: -1, Output: OutputStep},
	})
	step, err := LoadPredictor(stepPath)
	require.NoError(t, err)

	out, err := step.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out)

	out, err = step.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out)

	sigmoidPath := writeArtifact(t, "sigmoid.gob", &Envelope{
		Kind:   KindLinearModel,
		Linear: &LinearModel{Weights: []float64{0, 0}, Bias: 0, Output: OutputSigmoid},
	})
	sigmoid, err := LoadPredictor(sigmoidPath)
	require.NoError(t, err)

	out, err = sigmoid.Predict([]float64{5, -3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadScaler(filepath.Join(t.TempDir(), "absent.gob"))
	assert.ErrorIs(t, err, ErrArtifactUnavailable)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := LoadPredictor(path)
	assert.ErrorIs(t, err, ErrArtifactUnavailable)
}

func TestLoadWrongKind(t *testing.T) {
	path := writeArtifact(t, "scaler.gob", &Envelope{
		Kind:   KindStandardScaler,
		Scaler: &StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
	})

	_, err := LoadPredictor(path)
	assert.ErrorIs(t, err, ErrArtifactIncompatible)

	modelPath := writeArtifact(t, "model.gob", &Envelope{
		Kind:   KindLinearModel,
		Linear: &LinearModel{Weights: []float64{1}, Output: OutputStep},
	})

	_, err = LoadScaler(modelPath)
	assert.ErrorIs(t, err, ErrArtifactIncompatible)
}

func TestShapeMismatchFailsAtCallTime(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	_, err := scaler.Transform([]float64{1})
	assert.ErrorIs(t, err, ErrArtifactIncompatible)

	clf := &LinearModel{Weights: []float64{1, 2, 3}, Output: OutputStep}
	_, err = clf.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrArtifactIncompatible)
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	scalerEnv := &Envelope{
		Kind:   KindStandardScaler,
		Scaler: &StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
	}
	modelEnv := &Envelope{
		Kind:   KindLinearModel,
		Linear: &LinearModel{Weights: []float64{1}, Output: OutputStep},
	}

	paths := ArtifactPaths{
		AnemiaScaler:   filepath.Join(dir, "as.gob"),
		AnemiaModel:    filepath.Join(dir, "am.gob"),
		BrainModel:     filepath.Join(dir, "bm.gob"),
		DiabetesScaler: filepath.Join(dir, "ds.gob"),
		DiabetesModel:  filepath.Join(dir, "dm.gob"),
	}
	require.NoError(t, SaveEnvelope(paths.AnemiaScaler, scalerEnv))
	require.NoError(t, SaveEnvelope(paths.AnemiaModel, modelEnv))
	require.NoError(t, SaveEnvelope(paths.BrainModel, modelEnv))
	require.NoError(t, SaveEnvelope(paths.DiabetesScaler, scalerEnv))
	require.NoError(t, SaveEnvelope(paths.DiabetesModel, modelEnv))

	reg, err := LoadRegistry(paths)
	require.NoError(t, err)
	assert.NotNil(t, reg.AnemiaScaler)
	assert.NotNil(t, reg.AnemiaModel)
	assert.NotNil(t, reg.BrainModel)
	assert.NotNil(t, reg.DiabetesScaler)
	assert.NotNil(t, reg.DiabetesModel)
}

func TestLoadRegistryMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRegistry(ArtifactPaths{
		AnemiaScaler:   filepath.Join(dir, "missing.gob"),
		AnemiaModel:    filepath.Join(dir, "missing.gob"),
		BrainModel:     filepath.Join(dir, "missing.gob"),
		DiabetesScaler: filepath.Join(dir, "missing.gob"),
		DiabetesModel:  filepath.Join(dir, "missing.gob"),
	})
	assert.ErrorIs(t, err, ErrArtifactUnavailable)
}

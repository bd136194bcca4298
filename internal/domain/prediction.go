package domain

// PredictionResult is the rendered outcome of a prediction pipeline.
type PredictionResult struct {
	Label string
	Color string
	// Probability is set only by pipelines that expose one (percent, 0-100).
	Probability *float64
}

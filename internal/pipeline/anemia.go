package pipeline

import (
	"fmt"
	"net/url"

	"medpredict/internal/domain"
	"medpredict/internal/model"
)

// Field order matches what the anemia artifact was trained on.
var anemiaFields = []string{"Gender", "Hemoglobin", "MCH", "MCHC", "MCV"}

// Anemia classifies anemia from five blood-test values.
type Anemia struct {
	scaler model.Scaler
	clf    model.Predictor
}

func NewAnemia(reg *model.Registry) *Anemia {
	return &Anemia{scaler: reg.AnemiaScaler, clf: reg.AnemiaModel}
}

func (p *Anemia) Predict(form url.Values) (*domain.PredictionResult, error) {
	features, err := parseFields(form, anemiaFields)
	if err != nil {
		return nil, err
	}

	scaled, err := p.scaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("scale anemia features: %w", err)
	}

	out, err := p.clf.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("anemia inference: %w", err)
	}

	if out == 1 {
		return &domain.PredictionResult{Label: "You have anemia", Color: ColorRed}, nil
	}
	return &domain.PredictionResult{Label: "You do not have anemia", Color: ColorGreen}, nil
}

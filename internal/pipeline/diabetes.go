package pipeline

import (
	"fmt"
	"net/url"

	"medpredict/internal/domain"
	"medpredict/internal/model"
)

// defaultPedigreeFunction stands in for the diabetes-pedigree-function
// feature, which is not collected from the user. The value was fixed when
// the model was trained and must stay in sync with the artifact.
const defaultPedigreeFunction = 0.627

// Diabetes estimates diabetes risk from eight health metrics.
type Diabetes struct {
	scaler model.Scaler
	clf    model.Predictor
}

func NewDiabetes(reg *model.Registry) *Diabetes {
	return &Diabetes{scaler: reg.DiabetesScaler, clf: reg.DiabetesModel}
}

func (p *Diabetes) Predict(form url.Values) (*domain.PredictionResult, error) {
	pregnancies, err := parseField(form, "pregnancies")
	if err != nil {
		return nil, err
	}
	glucose, err := parseField(form, "glucose")
	if err != nil {
		return nil, err
	}
	bloodPressure, err := parseField(form, "bloodPressure")
	if err != nil {
		return nil, err
	}
	skinThickness, err := parseField(form, "skinThickness")
	if err != nil {
		return nil, err
	}
	insulin, err := parseField(form, "insulin")
	if err != nil {
		return nil, err
	}
	weight, err := parseField(form, "weight")
	if err != nil {
		return nil, err
	}
	height, err := parseField(form, "height")
	if err != nil {
		return nil, err
	}
	age, err := parseField(form, "age")
	if err != nil {
		return nil, err
	}

	if height <= 0 {
		return nil, fmt.Errorf("%w: height must be positive", ErrInvalidInput)
	}
	bmi := weight / (height * height)

	features := []float64{pregnancies, glucose, bloodPressure, skinThickness, insulin, bmi, defaultPedigreeFunction, age}

	scaled, err := p.scaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("scale diabetes features: %w", err)
	}

	out, err := p.clf.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("diabetes inference: %w", err)
	}

	probability := out * 100
	result := &domain.PredictionResult{Probability: &probability}
	if out > 0.5 {
		result.Label = "Positive for diabetes"
		result.Color = ColorRed
	} else {
		result.Label = "Negative for diabetes"
		result.Color = ColorGreen
	}
	return result, nil
}

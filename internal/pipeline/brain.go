package pipeline

import (
	"fmt"
	"image"
	"io"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"medpredict/internal/domain"
	"medpredict/internal/model"
)

// The brain model consumes a 256x256 RGB tensor flattened row-major.
const (
	brainImageSize  = 256
	brainTensorSize = brainImageSize * brainImageSize * 3
)

// Brain detects brain tumors from an uploaded scan image.
type Brain struct {
	clf model.Predictor
}

func NewBrain(reg *model.Registry) *Brain {
	return &Brain{clf: reg.BrainModel}
}

// Predict decodes the uploaded image in memory, resizes it to 256x256 and
// runs inference. Uploads that are not decodable images yield ErrInvalidInput.
func (p *Brain) Predict(upload io.Reader) (*domain.PredictionResult, error) {
	img, _, err := image.Decode(upload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrInvalidInput, err)
	}

	features := flattenImage(resizeImage(img))

	out, err := p.clf.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("brain inference: %w", err)
	}

	// The artifact was trained with label 1 meaning "no tumor"; folding
	// through abs(out-1) matches the original convention while tolerating
	// outputs near but not exactly at 0 or 1.
	if math.Abs(out-1) > 0.5 {
		return &domain.PredictionResult{Label: "You have Brain Tumor", Color: ColorRed}, nil
	}
	return &domain.PredictionResult{Label: "You do not have Brain Tumor", Color: ColorGreen}, nil
}

func resizeImage(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, brainImageSize, brainImageSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// flattenImage emits pixels row-major with B,G,R channels. The artifact was
// trained on tensors in that pixel order; R-first input would be silently
// misread since the vector length still matches.
func flattenImage(img *image.RGBA) []float64 {
	features := make([]float64, 0, brainTensorSize)
	for y := 0; y < brainImageSize; y++ {
		for x := 0; x < brainImageSize; x++ {
			offset := img.PixOffset(x, y)
			features = append(features,
				float64(img.Pix[offset+2]),
				float64(img.Pix[offset+1]),
				float64(img.Pix[offset]),
			)
		}
	}
	return features
}

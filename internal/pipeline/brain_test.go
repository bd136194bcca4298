package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medpredict/internal/model"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestBrainResizesToFixedTensor(t *testing.T) {
	for _, size := range []struct{ w, h int }{{10, 17}, {256, 256}, {640, 480}} {
		clf := &stubPredictor{out: 1}
		p := NewBrain(&model.Registry{BrainModel: clf})

		_, err := p.Predict(encodePNG(t, size.w, size.h))
		require.NoError(t, err)
		assert.Len(t, clf.got, 256*256*3)
	}
}

func TestBrainNoTumor(t *testing.T) {
	p := NewBrain(&model.Registry{BrainModel: &stubPredictor{out: 1}})

	result, err := p.Predict(encodePNG(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, "You do not have Brain Tumor", result.Label)
	assert.Equal(t, ColorGreen, result.Color)
}

func TestBrainTumor(t *testing.T) {
	p := NewBrain(&model.Registry{BrainModel: &stubPredictor{out: 0}})

	result, err := p.Predict(encodePNG(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, "You have Brain Tumor", result.Label)
	assert.Equal(t, ColorRed, result.Color)
}

func TestBrainRejectsNonImage(t *testing.T) {
	p := NewBrain(&model.Registry{BrainModel: &stubPredictor{}})

	_, err := p.Predict(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBrainPixelScale(t *testing.T) {
	clf := &stubPredictor{out: 1}
	p := NewBrain(&model.Registry{BrainModel: clf})

	_, err := p.Predict(encodePNG(t, 256, 256))
	require.NoError(t, err)

	for i, v := range clf.got {
		require.GreaterOrEqual(t, v, 0.0, "feature %d", i)
		require.LessOrEqual(t, v, 255.0, "feature %d", i)
	}
	// Blue channel was constant in the source image and comes first per pixel.
	assert.Equal(t, 128.0, clf.got[0])
}

func TestBrainChannelOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	clf := &stubPredictor{out: 1}
	p := NewBrain(&model.Registry{BrainModel: clf})

	_, err := p.Predict(&buf)
	require.NoError(t, err)

	// Every pixel must flatten blue-first, as the model was trained.
	require.Len(t, clf.got, 256*256*3)
	assert.Equal(t, []float64{30, 20, 10}, clf.got[:3])
	assert.Equal(t, []float64{30, 20, 10}, clf.got[len(clf.got)-3:])
}

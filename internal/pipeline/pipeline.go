package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidInput indicates a missing or malformed caller-supplied field.
var ErrInvalidInput = errors.New("invalid input")

// Result colors rendered by the presentation layer.
const (
	ColorRed   = "red"
	ColorGreen = "green"
)

func parseField(form url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing field %q", ErrInvalidInput, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q is not numeric", ErrInvalidInput, name)
	}
	return v, nil
}

func parseFields(form url.Values, names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := parseField(form, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

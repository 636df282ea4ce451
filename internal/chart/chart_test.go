package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Bar("t", []string{"a"}, []float64{1}).Validate())
	assert.NoError(t, Line("t", nil, []float64{1, 2}).Validate())

	assert.Error(t, (*Spec)(nil).Validate())
	assert.Error(t, Bar("t", nil, nil).Validate())
	assert.Error(t, Bar("t", []string{"a", "b"}, []float64{1}).Validate())
	assert.Error(t, (&Spec{Kind: "pie", Values: []float64{1}}).Validate())
}

func TestRenderPNG(t *testing.T) {
	for _, spec := range []*Spec{
		Bar("Sales by brand", []string{"H&M", "Zara", "Uniqlo"}, []float64{794.31, 1200, 55}),
		Line("Quantity over time", []string{"Jan", "Feb", "Mar"}, []float64{100, 0, 250}),
	} {
		path := filepath.Join(t.TempDir(), "chart.png")
		require.NoError(t, RenderPNG(spec, path, 400, 240))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderPNG_InvalidSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	assert.Error(t, RenderPNG(&Spec{Kind: KindBar}, path, 400, 240))
}

func TestRenderPNG_AllZeroValues(t *testing.T) {
	// A flat series must not divide by zero.
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, RenderPNG(Bar("flat", []string{"a", "b"}, []float64{0, 0}), path, 400, 240))
}

package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loghealth/internal/analyzer"
	apperrors "loghealth/pkg/errors"
)

func series(info, warn, errs int) analyzer.ChartSeries {
	return analyzer.Series(analyzer.LevelCounts{Info: info, Warn: warn, Error: errs, Total: info + warn + errs})
}

func TestRenderPNG_DecodesWithRequestedSize(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPNG(&buf, series(2, 1, 1), DefaultOptions())
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderPNG_AllZeroSeries(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPNG(&buf, series(0, 0, 0), DefaultOptions())
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestDraw_BarsUseBarColor(t *testing.T) {
	opts := Options{Width: 300, Height: 200}
	img, err := Draw(series(0, 0, 5), opts)
	require.NoError(t, err)

	// ERROR is the third slot; its bar spans the full plot height
	slot := (opts.Width - marginLeft - marginRight) / 3
	x := marginLeft + 2*slot + slot/2
	y := opts.Height - marginBottom - 5
	assert.Equal(t, colorBar, img.RGBAAt(x, y))

	// INFO has no bar
	x = marginLeft + slot/2
	assert.NotEqual(t, colorBar, img.RGBAAt(x, y))
}

func TestDraw_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		series analyzer.ChartSeries
		opts   Options
	}{
		{
			name:   "mismatched lengths",
			series: analyzer.ChartSeries{Labels: []string{"INFO"}, Values: []int{1, 2}},
			opts:   DefaultOptions(),
		},
		{
			name:   "negative value",
			series: analyzer.ChartSeries{Labels: []string{"INFO"}, Values: []int{-1}},
			opts:   DefaultOptions(),
		},
		{
			name:   "too small",
			series: series(1, 1, 1),
			opts:   Options{Width: 10, Height: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Draw(tt.series, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrRenderFailed))
		})
	}
}

func TestYScale(t *testing.T) {
	tests := []struct {
		max      int
		wantStep int
		wantTop  int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{5, 1, 5},
		{6, 2, 6},
		{7, 2, 8},
		{100, 20, 100},
	}

	for _, tt := range tests {
		step, top := yScale(tt.max)
		assert.Equal(t, tt.wantStep, step, "step for %d", tt.max)
		assert.Equal(t, tt.wantTop, top, "top for %d", tt.max)
	}
}

package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/healthgo/internal/progress"
)

func weekSeries(values ...float64) []progress.DayValue {
	out := make([]progress.DayValue, 0, len(values))
	dates := []string{
		"2026-08-22", "2026-08-23", "2026-08-24", "2026-08-25",
		"2026-08-26", "2026-08-27", "2026-08-28",
	}
	for i, v := range values {
		out = append(out, progress.DayValue{Date: dates[i], Value: v})
	}
	return out
}

func TestRenderProgressProducesPNG(t *testing.T) {
	r := New()

	water := weekSeries(1500, 0, 2600, 1800, 0, 3000, 0)
	in := weekSeries(1800, 2100, 0, 2400, 1900, 0, 0)
	out := weekSeries(300, 0, 0, 450, 0, 200, 0)
	today := progress.Totals{WaterML: 1200, CaloriesIn: 900, CaloriesOut: 150}

	data, err := r.RenderProgress(water, in, out, 2600, 2729.9, today)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// Two stacked panels.
	assert.Equal(t, chartHeight*2, img.Bounds().Dy())
	assert.Equal(t, chartWidth, img.Bounds().Dx())
}

func TestRenderProgressTodayOverridesLastEntry(t *testing.T) {
	r := New()

	water := weekSeries(0, 0, 0, 0, 0, 0, 500)
	in := weekSeries(0, 0, 0, 0, 0, 0, 0)
	out := weekSeries(0, 0, 0, 0, 0, 0, 0)

	_, err := r.RenderProgress(water, in, out, 2600, 2000, progress.Totals{WaterML: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, water[len(water)-1].Value)
}

func TestRenderProgressRejectsRaggedSeries(t *testing.T) {
	r := New()

	_, err := r.RenderProgress(weekSeries(1), weekSeries(1, 2), weekSeries(1), 2600, 2000, progress.Totals{})
	assert.Error(t, err)

	_, err = r.RenderProgress(nil, nil, nil, 2600, 2000, progress.Totals{})
	assert.Error(t, err)
}

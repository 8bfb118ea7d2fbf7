// Package charts renders the weekly progress picture sent by /show_charts:
// a water bar chart over a calorie line chart, stacked into one PNG.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/thomasfsr/healthgo/internal/progress"
)

var (
	colorReached  = drawing.ColorFromHex("4ecca3")
	colorPending  = drawing.ColorFromHex("00d9ff")
	colorConsumed = drawing.ColorFromHex("ff6b6b")
	colorBurned   = drawing.ColorFromHex("4ecca3")
	colorGoal     = drawing.ColorFromHex("feca57")
)

const (
	chartWidth  = 900
	chartHeight = 420
)

// Renderer draws progress charts with go-chart.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// RenderProgress builds the combined weekly chart. The three series must be
// dense and equally long; today's totals override the last entry so the
// picture matches the textual progress report.
func (r *Renderer) RenderProgress(water, caloriesIn, caloriesOut []progress.DayValue, waterGoalML int, calorieGoal float64, today progress.Totals) ([]byte, error) {
	if len(water) == 0 || len(water) != len(caloriesIn) || len(water) != len(caloriesOut) {
		return nil, fmt.Errorf("chart series must be dense and equally sized")
	}

	water[len(water)-1].Value = float64(today.WaterML)
	caloriesIn[len(caloriesIn)-1].Value = today.CaloriesIn
	caloriesOut[len(caloriesOut)-1].Value = today.CaloriesOut

	top, err := renderWaterBars(water, waterGoalML)
	if err != nil {
		return nil, fmt.Errorf("failed to render water chart: %w", err)
	}
	bottom, err := renderCalorieLines(caloriesIn, caloriesOut, calorieGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to render calorie chart: %w", err)
	}
	return stack(top, bottom)
}

func renderWaterBars(water []progress.DayValue, goalML int) ([]byte, error) {
	bars := make([]chart.Value, 0, len(water))
	maxVal := float64(goalML)
	for _, dv := range water {
		color := colorPending
		if goalML > 0 && dv.Value >= float64(goalML) {
			color = colorReached
		}
		if dv.Value > maxVal {
			maxVal = dv.Value
		}
		bars = append(bars, chart.Value{
			Value: dv.Value,
			Label: dayLabel(dv.Date),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	bar := chart.BarChart{
		Title:    "Вода (мл)",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		XAxis:    chart.Style{},
		YAxis: chart.YAxis{
			Range:     &chart.ContinuousRange{Min: 0, Max: maxVal * 1.2},
			GridLines: []chart.GridLine{{Value: float64(goalML)}},
			GridMajorStyle: chart.Style{
				StrokeColor:     colorGoal,
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCalorieLines(caloriesIn, caloriesOut []progress.DayValue, goal float64) ([]byte, error) {
	n := len(caloriesIn)
	xs := make([]float64, n)
	in := make([]float64, n)
	out := make([]float64, n)
	goalLine := make([]float64, n)
	ticks := make([]chart.Tick, 0, n)

	maxVal := goal
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		in[i] = caloriesIn[i].Value
		out[i] = caloriesOut[i].Value
		goalLine[i] = goal
		if in[i] > maxVal {
			maxVal = in[i]
		}
		if out[i] > maxVal {
			maxVal = out[i]
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: dayLabel(caloriesIn[i].Date)})
	}
	if maxVal == 0 {
		maxVal = 1
	}

	graph := chart.Chart{
		Title:  "Калории (ккал)",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(n - 1)},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.2},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Потреблено",
				XValues: xs,
				YValues: in,
				Style:   chart.Style{StrokeColor: colorConsumed, StrokeWidth: 3},
			},
			chart.ContinuousSeries{
				Name:    "Сожжено",
				XValues: xs,
				YValues: out,
				Style:   chart.Style{StrokeColor: colorBurned, StrokeWidth: 3},
			},
			chart.ContinuousSeries{
				Name:    "Цель",
				XValues: xs,
				YValues: goalLine,
				Style: chart.Style{
					StrokeColor:     colorGoal,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stack joins the two panels vertically into a single PNG.
func stack(topPNG, bottomPNG []byte) ([]byte, error) {
	top, err := png.Decode(bytes.NewReader(topPNG))
	if err != nil {
		return nil, fmt.Errorf("failed to decode water panel: %w", err)
	}
	bottom, err := png.Decode(bytes.NewReader(bottomPNG))
	if err != nil {
		return nil, fmt.Errorf("failed to decode calorie panel: %w", err)
	}

	tb := top.Bounds()
	bb := bottom.Bounds()
	width := tb.Dx()
	if bb.Dx() > width {
		width = bb.Dx()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, tb.Dy()+bb.Dy()))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode combined chart: %w", err)
	}
	return buf.Bytes(), nil
}

// dayLabel shortens YYYY-MM-DD to the DD.MM axis label.
func dayLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02.01")
}

// Package render draws concentration graphs as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/dosewave/dosewave-api/internal/service"
)

// Default chart dimensions in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 576
)

// Plot area margins, leaving room for axis labels and the legend.
const (
	marginLeft   = 64.0
	marginRight  = 24.0
	marginTop    = 48.0
	marginBottom = 48.0
)

const (
	axisFontSize   = 13
	legendFontSize = 14
	gridLines      = 5
)

// palette cycles across datasets in order.
var palette = []color.Color{
	color.RGBA{R: 0x2b, G: 0x8c, B: 0xbe, A: 0xff}, // blue
	color.RGBA{R: 0xe3, G: 0x4a, B: 0x33, A: 0xff}, // red
	color.RGBA{R: 0x31, G: 0xa3, B: 0x54, A: 0xff}, // green
	color.RGBA{R: 0x75, G: 0x6b, B: 0xb1, A: 0xff}, // purple
	color.RGBA{R: 0xe6, G: 0x8a, B: 0x00, A: 0xff}, // orange
	color.RGBA{R: 0x63, G: 0x63, B: 0x63, A: 0xff}, // gray
}

// Chart renders the graph's datasets as a PNG line chart with axes, grid
// lines, and a legend. The vertical axis spans [0, 1] because accumulated
// curves are normalized.
func Chart(graph *service.Graph, width, height int) ([]byte, error) {
	if graph == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid chart dimensions %dx%d", width, height)
	}
	if graph.EndHours <= graph.StartHours {
		return nil, fmt.Errorf("invalid chart window [%g, %g]", graph.StartHours, graph.EndHours)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart font: %w", err)
	}

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	xSpan := graph.EndHours - graph.StartHours
	toX := func(hours float64) float64 {
		return marginLeft + (hours-graph.StartHours)/xSpan*plotW
	}
	toY := func(concentration float64) float64 {
		return marginTop + (1-concentration)*plotH
	}

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: axisFontSize}))
	drawGrid(dc, graph, plotW, plotH, toX, toY)

	for i, dataset := range graph.Datasets {
		dc.SetColor(palette[i%len(palette)])
		dc.SetLineWidth(2)
		for _, point := range dataset.Series {
			dc.LineTo(toX(point.TimeHours), toY(point.Concentration))
		}
		dc.Stroke()
	}

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: legendFontSize}))
	drawLegend(dc, graph.Datasets)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGrid draws the plot border, horizontal and vertical grid lines, and
// axis tick labels.
func drawGrid(
	dc *gg.Context,
	graph *service.Graph,
	plotW, plotH float64,
	toX, toY func(float64) float64,
) {
	gridColor := color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	labelColor := color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}

	// Horizontal lines with concentration labels.
	for i := 0; i <= gridLines; i++ {
		level := float64(i) / gridLines
		y := toY(level)

		dc.SetColor(gridColor)
		dc.SetLineWidth(1)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()

		dc.SetColor(labelColor)
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", level), marginLeft-8, y, 1, 0.5)
	}

	// Vertical lines with hour labels at a step that keeps labels readable.
	step := tickStep(graph.EndHours - graph.StartHours)
	firstTick := math.Ceil(graph.StartHours/step) * step
	for hours := firstTick; hours <= graph.EndHours; hours += step {
		x := toX(hours)

		dc.SetColor(gridColor)
		dc.SetLineWidth(1)
		dc.DrawLine(x, marginTop, x, marginTop+plotH)
		dc.Stroke()

		dc.SetColor(labelColor)
		dc.DrawStringAnchored(fmt.Sprintf("%gh", hours), x, marginTop+plotH+8, 0.5, 1)
	}

	dc.SetColor(labelColor)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(marginLeft, marginTop, plotW, plotH)
	dc.Stroke()
}

// tickStep picks an hour spacing for vertical grid lines so the axis carries
// roughly a dozen labels regardless of window size.
func tickStep(spanHours float64) float64 {
	steps := []float64{1, 2, 4, 6, 12, 24, 48}
	for _, step := range steps {
		if spanHours/step <= 12 {
			return step
		}
	}
	return math.Ceil(spanHours / 12)
}

// drawLegend draws one color swatch plus label per dataset across the top of
// the chart.
func drawLegend(dc *gg.Context, datasets []service.Dataset) {
	const swatchSize = 12.0
	labelColor := color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}

	x := marginLeft
	y := marginTop / 2
	for i, dataset := range datasets {
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(x, y-swatchSize/2, swatchSize, swatchSize)
		dc.Fill()

		dc.SetColor(labelColor)
		labelW, _ := dc.MeasureString(dataset.Label)
		dc.DrawStringAnchored(dataset.Label, x+swatchSize+6, y, 0, 0.35)

		x += swatchSize + 6 + labelW + 24
	}
}

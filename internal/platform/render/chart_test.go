package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewave/dosewave-api/internal/domain/pk"
	"github.com/dosewave/dosewave-api/internal/service"
)

func sampleGraph() *service.Graph {
	curve := pk.ConcentrationCurve{
		{TimeHours: 0, Concentration: 0},
		{TimeHours: 12, Concentration: 0.6},
		{TimeHours: 24, Concentration: 1},
		{TimeHours: 36, Concentration: 0.4},
		{TimeHours: 48, Concentration: 0.1},
	}
	return &service.Graph{
		StartHours: 0,
		EndHours:   48,
		Datasets: []service.Dataset{
			{Label: "Testozil 500 (twice daily)", Series: curve},
			{Label: "Testozil 500 (twice daily) [metabolite]", Series: curve},
		},
	}
}

func TestChart(t *testing.T) {
	t.Parallel()

	data, err := Chart(sampleGraph(), DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "output should be a decodable PNG")
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestChartCustomDimensions(t *testing.T) {
	t.Parallel()

	data, err := Chart(sampleGraph(), 320, 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestChartInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		graph  *service.Graph
		width  int
		height int
	}{
		{name: "nil graph", graph: nil, width: 100, height: 100},
		{name: "zero width", graph: sampleGraph(), width: 0, height: 100},
		{name: "negative height", graph: sampleGraph(), width: 100, height: -1},
		{
			name:   "empty window",
			graph:  &service.Graph{StartHours: 24, EndHours: 24},
			width:  100,
			height: 100,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data, err := Chart(tc.graph, tc.width, tc.height)
			assert.Error(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestChartNoDatasets(t *testing.T) {
	t.Parallel()

	graph := &service.Graph{StartHours: 0, EndHours: 24}
	data, err := Chart(graph, 200, 150)
	require.NoError(t, err, "an empty chart still renders axes and grid")

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestTickStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spanHours float64
		want      float64
	}{
		{spanHours: 6, want: 1},
		{spanHours: 24, want: 2},
		{spanHours: 48, want: 4},
		{spanHours: 168, want: 24},
		{spanHours: 1200, want: 100},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tickStep(tc.spanHours), "span %g", tc.spanHours)
	}
}

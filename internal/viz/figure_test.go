package viz_test

import (
	"encoding/json"
	"testing"
	"time"

	"floatchat-backend/internal/viz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints(t *testing.T) []viz.Point {
	t.Helper()

	parse := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}

	return []viz.Point{
		{ProfId: "p1", Latitude: 15.0, Longitude: 65.0, MeasuredAt: parse("2024-01-05T00:00:00Z"), Value: 28.0},
		{ProfId: "p2", Latitude: 16.0, Longitude: 66.0, MeasuredAt: parse("2024-01-20T00:00:00Z"), Value: 30.0},
		{ProfId: "p3", Latitude: 10.0, Longitude: 90.0, MeasuredAt: parse("2024-02-10T00:00:00Z"), Value: 27.0},
	}
}

func TestScatterMap(t *testing.T) {
	fig := viz.ScatterMap(samplePoints(t), "temperature")

	require.Len(t, fig.Data, 1)
	trace := fig.Data[0]
	assert.Equal(t, "scattermapbox", trace.Type)
	assert.Equal(t, []float64{15.0, 16.0, 10.0}, trace.Lat)
	assert.Equal(t, []float64{65.0, 66.0, 90.0}, trace.Lon)
	require.NotNil(t, trace.Marker)
	assert.Equal(t, []float64{28.0, 30.0, 27.0}, trace.Marker.Color)

	assert.Equal(t, "Temperature Map", fig.Layout.Title)
	require.NotNil(t, fig.Layout.MapboxCenter)
	assert.InDelta(t, 20.5937, fig.Layout.MapboxCenter.Lat, 1e-9)
}

func TestMonthlyAverageChart(t *testing.T) {
	fig := viz.MonthlyAverageChart(samplePoints(t), "temperature")

	require.Len(t, fig.Data, 1)
	trace := fig.Data[0]
	assert.Equal(t, "lines+markers", trace.Mode)
	assert.Equal(t, []string{"2024-01", "2024-02"}, trace.X)
	require.Len(t, trace.Y, 2)
	assert.InDelta(t, 29.0, trace.Y[0], 1e-9)
	assert.InDelta(t, 27.0, trace.Y[1], 1e-9)

	assert.Equal(t, "plotly_dark", fig.Layout.Template)
	assert.Equal(t, 500, fig.Layout.Height)
}

func TestFigureSerialization(t *testing.T) {
	fig := viz.MonthlyAverageChart(samplePoints(t), "salinity")

	serialized, err := fig.ToJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(serialized), &doc))
	assert.Contains(t, doc, "data")
	assert.Contains(t, doc, "layout")
}
